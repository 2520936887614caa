// Package entity registers template-driven stats for many entities into one
// shared resolution graph, keyed by composite "entity:stat" ids.
package entity

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/statforge/internal/stat"
	"github.com/udisondev/statforge/internal/statdef"
)

// Graph is the resolution engine the manager registers into.
// *stat.Resolver implements it.
type Graph interface {
	RegisterSource(id stat.ID, src stat.Source)
	RegisterTransform(id stat.ID, t stat.Transform)
	Resolve(id stat.ID, ctx *stat.Context) (stat.Resolved, error)
}

var _ Graph = (*stat.Resolver)(nil)

// Manager instantiates templates into a Graph.
//
// Manager holds no mutable state; concurrent use against one Graph is as safe
// as the Graph itself (*stat.Resolver guards itself with a mutex).
//
// Dependencies are NOT ordered here: callers apply configs in an order where
// every stat comes after the stats it depends on.
type Manager struct {
	registry *statdef.Registry
}

// NewManager creates a Manager over a template registry.
func NewManager(reg *statdef.Registry) *Manager {
	return &Manager{registry: reg}
}

// Registry returns the templates the manager instantiates.
func (m *Manager) Registry() *statdef.Registry { return m.registry }

// ApplyTemplate instantiates templateName with params and registers the
// result under statName.
//
// All substitution and construction happens before the first registration:
// on error g is left untouched. When statName is composite ("player_1:HP"),
// unqualified dependency and condition names resolve against the same entity.
func (m *Manager) ApplyTemplate(g Graph, templateName, statName string, params statdef.Params) error {
	tmpl, err := m.registry.Get(templateName)
	if err != nil {
		return err
	}
	def, err := tmpl.Substitute(params)
	if err != nil {
		return fmt.Errorf("apply to %q: %w", statName, err)
	}
	compiled, err := statdef.Compile(def, statdef.ScopeOf(statName))
	if err != nil {
		return fmt.Errorf("apply to %q: template %w", statName, err)
	}

	id := stat.ID(statName)
	for _, src := range compiled.Sources {
		g.RegisterSource(id, src)
	}
	for _, t := range compiled.Transforms {
		g.RegisterTransform(id, t)
	}

	slog.Debug("applied stat template",
		"template", templateName,
		"stat", statName,
		"sources", len(compiled.Sources),
		"transforms", len(compiled.Transforms))
	return nil
}

// ApplyTemplates applies each application in order and stops at the first
// failure. Applications committed before the failure stay registered.
func (m *Manager) ApplyTemplates(g Graph, apps []Application) error {
	for i, app := range apps {
		if err := m.ApplyTemplate(g, app.TemplateName, app.StatName, app.Params); err != nil {
			return fmt.Errorf("application %d: %w", i, err)
		}
	}
	return nil
}

// LoadEntityStats applies every config under its composite id, in input order.
// No rollback on failure.
func (m *Manager) LoadEntityStats(g Graph, configs []StatConfig) error {
	for i, c := range configs {
		if err := m.ApplyTemplate(g, c.TemplateName, c.StatID(), c.Params); err != nil {
			return fmt.Errorf("stat config %d: %w", i, err)
		}
	}
	return nil
}

// LoadEntity applies configs for entityID, ignoring the EntityID stored in
// each config.
func (m *Manager) LoadEntity(g Graph, entityID string, configs []StatConfig) error {
	for i, c := range configs {
		if err := m.ApplyTemplate(g, c.TemplateName, StatID(entityID, c.StatType), c.Params); err != nil {
			return fmt.Errorf("entity %q stat config %d: %w", entityID, i, err)
		}
	}
	return nil
}

// AddSource registers src under the entity stat directly (equipment, buffs).
func (m *Manager) AddSource(g Graph, entityID, statType string, src stat.Source) {
	g.RegisterSource(stat.ID(StatID(entityID, statType)), src)
}

// AddTransform registers t under the entity stat directly.
func (m *Manager) AddTransform(g Graph, entityID, statType string, t stat.Transform) {
	g.RegisterTransform(stat.ID(StatID(entityID, statType)), t)
}

// ResolveStat resolves the entity stat. Engine errors are returned as is.
func (m *Manager) ResolveStat(g Graph, entityID, statType string, ctx *stat.Context) (stat.Resolved, error) {
	return g.Resolve(stat.ID(StatID(entityID, statType)), ctx)
}

// CreateEntityStats parses a templates document and instantiates one template
// for entityName into a fresh resolver. The stat is registered under
// entityName itself.
func CreateEntityStats(text []byte, entityName, templateName string, params statdef.Params) (*stat.Resolver, error) {
	reg, err := statdef.RegistryFromText(text)
	if err != nil {
		return nil, err
	}
	r := stat.NewResolver()
	if err := NewManager(reg).ApplyTemplate(r, templateName, entityName, params); err != nil {
		return nil, err
	}
	return r, nil
}
