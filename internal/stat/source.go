package stat

import (
	"fmt"
	"strings"
)

// Constant is a fixed source value.
type Constant float64

func (c Constant) Value(map[ID]float64, *Context) (float64, error) { return float64(c), nil }
func (c Constant) DependsOn() []ID                                 { return nil }
func (c Constant) Describe() string                                { return fmt.Sprintf("constant(%g)", float64(c)) }

// MapSource contributes multiplier × sum(dependency values).
type MapSource struct {
	Dependencies []ID
	Multiplier   float64
}

// NewMapSource creates a MapSource. The dependency slice is copied.
func NewMapSource(deps []ID, multiplier float64) *MapSource {
	return &MapSource{Dependencies: append([]ID(nil), deps...), Multiplier: multiplier}
}

func (m *MapSource) Value(deps map[ID]float64, _ *Context) (float64, error) {
	sum, err := sumDependencies(m.Dependencies, deps)
	if err != nil {
		return 0, err
	}
	return sum * m.Multiplier, nil
}

func (m *MapSource) DependsOn() []ID { return append([]ID(nil), m.Dependencies...) }

func (m *MapSource) Describe() string {
	return fmt.Sprintf("map(%s × %g)", joinIDs(m.Dependencies), m.Multiplier)
}

func sumDependencies(ids []ID, deps map[ID]float64) (float64, error) {
	var sum float64
	for _, id := range ids {
		v, ok := deps[id]
		if !ok {
			return 0, &MissingDependencyError{ID: id}
		}
		sum += v
	}
	return sum, nil
}

func joinIDs(ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, "+")
}
