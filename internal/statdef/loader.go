package statdef

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/statforge/internal/stat"
)

// LoadDocument builds a resolver from the direct stat definitions of doc.
// Templates in doc are ignored. Every definition is compiled before anything
// is registered, so an error leaves no resolver behind.
func LoadDocument(doc *Document) (*stat.Resolver, error) {
	compiled := make([]Compiled, 0, len(doc.Stats))
	for _, def := range doc.Stats {
		// Direct definitions carry no parameters: a placeholder here is a
		// missing parameter.
		bound, err := def.Substitute(nil)
		if err != nil {
			return nil, fmt.Errorf("stat %w", err)
		}
		c, err := Compile(bound, "")
		if err != nil {
			return nil, fmt.Errorf("stat %w", err)
		}
		compiled = append(compiled, c)
	}

	r := stat.NewResolver()
	for i, def := range doc.Stats {
		id := stat.ID(def.Name)
		for _, src := range compiled[i].Sources {
			r.RegisterSource(id, src)
		}
	}
	for i, def := range doc.Stats {
		id := stat.ID(def.Name)
		for _, t := range compiled[i].Transforms {
			r.RegisterTransform(id, t)
		}
	}

	slog.Info("loaded stat definitions", "count", len(doc.Stats))
	return r, nil
}

// LoadFromJSON builds a resolver from a "stats" document.
func LoadFromJSON(text []byte) (*stat.Resolver, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return LoadDocument(doc)
}

// ResolveStatFromJSON loads a "stats" document and resolves one stat.
// Engine errors are returned unwrapped.
func ResolveStatFromJSON(text []byte, statName string) (stat.Resolved, error) {
	r, err := LoadFromJSON(text)
	if err != nil {
		return stat.Resolved{}, err
	}
	return r.Resolve(stat.ID(statName), nil)
}
