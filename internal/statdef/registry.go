package statdef

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry is an immutable set of templates keyed by name.
// Safe for concurrent readers once constructed.
type Registry struct {
	templates map[string]Template
	order     []string
}

// NewRegistry builds a registry. Duplicate names are rejected.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{
		templates: make(map[string]Template, len(templates)),
		order:     make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: template without name", ErrInvalidDefinition)
		}
		if _, dup := r.templates[t.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
		}
		r.templates[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// RegistryFromText parses a templates document and builds a registry from it.
func RegistryFromText(text []byte) (*Registry, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, err
	}
	r, err := NewRegistry(doc.Templates...)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded stat templates", "count", r.Len())
	return r, nil
}

// Get returns the template with the given name.
func (r *Registry) Get(name string) (Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Names returns template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for n := range r.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of templates.
func (r *Registry) Len() int { return len(r.templates) }

// Templates returns the templates in declaration order.
func (r *Registry) Templates() []Template {
	out := make([]Template, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.templates[n])
	}
	return out
}

// Merge returns a new registry holding the templates of r followed by those of
// others. A name defined twice is ErrDuplicateTemplate.
func (r *Registry) Merge(others ...*Registry) (*Registry, error) {
	all := r.Templates()
	for _, o := range others {
		if o == nil {
			continue
		}
		all = append(all, o.Templates()...)
	}
	return NewRegistry(all...)
}
