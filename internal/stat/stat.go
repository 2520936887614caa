// Package stat is a small dependency-graph stat resolver.
//
// Stats are identified by string IDs. Every stat is the sum of its sources,
// passed through its transforms in registration order. Sources and transforms
// may depend on other stats; the resolver evaluates dependencies first,
// detects cycles and caches resolved values until they are invalidated.
package stat

import (
	"errors"
	"fmt"
)

// ID identifies a stat inside a Resolver ("HP", "player_1:HP").
type ID string

func (id ID) String() string { return string(id) }

var (
	// ErrUnknownStat: stat не зарегистрирован ни одним source/transform.
	ErrUnknownStat = errors.New("unknown stat")
	// ErrCycle: зависимости стата образуют цикл.
	ErrCycle = errors.New("dependency cycle")
)

// MissingDependencyError is returned by sources and transforms whose declared
// dependency value was not supplied by the caller.
type MissingDependencyError struct {
	ID ID
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency value: %s", e.ID)
}

// Context carries caller-supplied values into a resolution pass.
// A nil *Context is valid and empty.
type Context struct {
	values map[string]float64
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{values: make(map[string]float64)}
}

// Set stores a named value and returns the context for chaining.
func (c *Context) Set(key string, value float64) *Context {
	c.values[key] = value
	return c
}

// Get returns a named value.
func (c *Context) Get(key string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Source contributes to a stat's base value. Sources of one stat are summed.
type Source interface {
	Value(deps map[ID]float64, ctx *Context) (float64, error)
	DependsOn() []ID
	Describe() string
}

// Transform adjusts the running value of a stat. Order matters.
type Transform interface {
	Apply(value float64, deps map[ID]float64, ctx *Context) (float64, error)
	DependsOn() []ID
	Describe() string
}

// Contribution is one line of a resolution breakdown.
// For sources Value is the source's own value, for transforms it is the
// running value after the transform was applied.
type Contribution struct {
	Description string
	Value       float64
}

// Resolved is the result of resolving a stat.
type Resolved struct {
	ID         ID
	Value      float64
	Sources    []Contribution
	Transforms []Contribution
}
