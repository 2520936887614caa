package stat

import (
	"fmt"
	"math"
)

// Operator compares a stat value with a threshold.
type Operator int8

const (
	OpGreater      Operator = iota + 1 // >
	OpLess                             // <
	OpGreaterEqual                     // >=
	OpLessEqual                        // <=
	OpEqual                            // ==
)

// equalEpsilon: machine epsilon для float64 (2^-52).
const equalEpsilon = 0x1p-52

var operatorSymbols = map[Operator]string{
	OpGreater:      ">",
	OpLess:         "<",
	OpGreaterEqual: ">=",
	OpLessEqual:    "<=",
	OpEqual:        "==",
}

// ParseOperator parses one of ">", "<", ">=", "<=", "==". Any other token,
// "!=" included, is an error.
func ParseOperator(s string) (Operator, error) {
	for op, sym := range operatorSymbols {
		if sym == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operator %q", s)
}

func (o Operator) String() string {
	if sym, ok := operatorSymbols[o]; ok {
		return sym
	}
	return fmt.Sprintf("Operator(%d)", int8(o))
}

// Compare evaluates "a <op> b".
func (o Operator) Compare(a, b float64) bool {
	switch o {
	case OpGreater:
		return a > b
	case OpLess:
		return a < b
	case OpGreaterEqual:
		return a >= b
	case OpLessEqual:
		return a <= b
	case OpEqual:
		return math.Abs(a-b) < equalEpsilon
	default:
		return false
	}
}

// Conditional applies Then when "Stat <Operator> Threshold" holds, Else otherwise.
type Conditional struct {
	Stat      ID
	Operator  Operator
	Threshold float64
	Then      Transform
	Else      Transform
}

// NewConditional creates a Conditional. A nil els becomes Identity.
func NewConditional(statID ID, op Operator, threshold float64, then, els Transform) *Conditional {
	if els == nil {
		els = Identity{}
	}
	return &Conditional{Stat: statID, Operator: op, Threshold: threshold, Then: then, Else: els}
}

func (c *Conditional) Apply(v float64, deps map[ID]float64, ctx *Context) (float64, error) {
	cv, ok := deps[c.Stat]
	if !ok {
		return 0, &MissingDependencyError{ID: c.Stat}
	}
	if c.Operator.Compare(cv, c.Threshold) {
		return c.Then.Apply(v, deps, ctx)
	}
	return c.Else.Apply(v, deps, ctx)
}

func (c *Conditional) DependsOn() []ID {
	deps := []ID{c.Stat}
	deps = append(deps, c.Then.DependsOn()...)
	deps = append(deps, c.Else.DependsOn()...)
	return deps
}

func (c *Conditional) Describe() string {
	return fmt.Sprintf("if %s %s %g then %s else %s",
		c.Stat, c.Operator, c.Threshold, c.Then.Describe(), c.Else.Describe())
}
