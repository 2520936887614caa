package entity

import "github.com/udisondev/statforge/internal/statdef"

// StatConfig binds one entity stat to a template instantiation.
// Stored per entity by internal/db; order within an entity is application order.
type StatConfig struct {
	EntityID     string         `json:"entity_id" yaml:"entity_id"`
	StatType     string         `json:"stat_type" yaml:"stat_type"`
	TemplateName string         `json:"template_name" yaml:"template_name"`
	Params       statdef.Params `json:"params" yaml:"params"`
}

// StatID returns the composite id of the configured stat.
func (c StatConfig) StatID() string { return StatID(c.EntityID, c.StatType) }

// Mapping is a (stat type, template, params) triple not yet bound to an entity.
type Mapping struct {
	StatType     string         `json:"stat_type" yaml:"stat_type"`
	TemplateName string         `json:"template_name" yaml:"template_name"`
	Params       statdef.Params `json:"params" yaml:"params"`
}

// Application is one ApplyTemplates step.
type Application struct {
	TemplateName string
	StatName     string
	Params       statdef.Params
}

// ConfigsForEntity binds mappings to entityID, keeping their order.
func ConfigsForEntity(entityID string, mappings []Mapping) []StatConfig {
	out := make([]StatConfig, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, StatConfig{
			EntityID:     entityID,
			StatType:     m.StatType,
			TemplateName: m.TemplateName,
			Params:       m.Params,
		})
	}
	return out
}

// StatID builds the composite stat id "entityID:statType".
//
// The colon is not escaped: an entity id or stat type that itself contains a
// colon can collide with another entity's id.
func StatID(entityID, statType string) string {
	return entityID + ":" + statType
}
