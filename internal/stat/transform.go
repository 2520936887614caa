package stat

import (
	"fmt"
	"math"
)

// Multiplicative multiplies the running value.
type Multiplicative float64

func (m Multiplicative) Apply(v float64, _ map[ID]float64, _ *Context) (float64, error) {
	return v * float64(m), nil
}
func (m Multiplicative) DependsOn() []ID  { return nil }
func (m Multiplicative) Describe() string { return fmt.Sprintf("×%g", float64(m)) }

// Additive adds to the running value.
type Additive float64

func (a Additive) Apply(v float64, _ map[ID]float64, _ *Context) (float64, error) {
	return v + float64(a), nil
}
func (a Additive) DependsOn() []ID  { return nil }
func (a Additive) Describe() string { return fmt.Sprintf("%+g", float64(a)) }

// Clamp bounds the running value. Use math.Inf for an open side.
type Clamp struct {
	Min float64
	Max float64
}

// NewClamp creates a Clamp; nil bounds are open.
func NewClamp(lo, hi *float64) Clamp {
	c := Clamp{Min: math.Inf(-1), Max: math.Inf(1)}
	if lo != nil {
		c.Min = *lo
	}
	if hi != nil {
		c.Max = *hi
	}
	return c
}

func (c Clamp) Apply(v float64, _ map[ID]float64, _ *Context) (float64, error) {
	return math.Min(math.Max(v, c.Min), c.Max), nil
}
func (c Clamp) DependsOn() []ID  { return nil }
func (c Clamp) Describe() string { return fmt.Sprintf("clamp[%g, %g]", c.Min, c.Max) }

// MapTransform adds multiplier × sum(dependency values) to the running value.
type MapTransform struct {
	Dependencies []ID
	Multiplier   float64
}

// NewMapTransform creates a MapTransform. The dependency slice is copied.
func NewMapTransform(deps []ID, multiplier float64) *MapTransform {
	return &MapTransform{Dependencies: append([]ID(nil), deps...), Multiplier: multiplier}
}

func (m *MapTransform) Apply(v float64, deps map[ID]float64, _ *Context) (float64, error) {
	sum, err := sumDependencies(m.Dependencies, deps)
	if err != nil {
		return 0, err
	}
	return v + sum*m.Multiplier, nil
}

func (m *MapTransform) DependsOn() []ID { return append([]ID(nil), m.Dependencies...) }

func (m *MapTransform) Describe() string {
	return fmt.Sprintf("+map(%s × %g)", joinIDs(m.Dependencies), m.Multiplier)
}

// Identity passes the running value through unchanged.
type Identity struct{}

func (Identity) Apply(v float64, _ map[ID]float64, _ *Context) (float64, error) { return v, nil }
func (Identity) DependsOn() []ID                                                { return nil }
func (Identity) Describe() string                                               { return "identity" }
