// Package statdef compiles declarative stat definitions into stat sources and
// transforms.
//
// A document (JSON or YAML) holds direct stat definitions under "stats" and/or
// parameterized templates under "templates". Parsing classifies every numeric
// field as a literal or a {{name}} placeholder; substitution binds placeholders
// from a parameter map; the factory turns the literal-only result into
// stat.Source / stat.Transform instances.
package statdef

import "github.com/udisondev/statforge/internal/stat"

// SourceDef is a parsed source definition.
// Implemented by ConstantDef, ScalingDef and MapSourceDef only.
type SourceDef interface {
	isSourceDef()
	Kind() string
}

// TransformDef is a parsed transform definition.
// Implemented by MultiplicativeDef, AdditiveDef, ClampDef, MapTransformDef
// and ConditionalDef only.
type TransformDef interface {
	isTransformDef()
	Kind() string
}

// ConstantDef contributes Value.
type ConstantDef struct {
	Value Value
	Name  string
}

// ScalingDef contributes Base + Scale*Level.
type ScalingDef struct {
	Base  Value
	Scale Value
	Level Value
	Name  string
}

// MapSourceDef contributes Multiplier × sum(Dependencies).
type MapSourceDef struct {
	Dependencies []string
	Multiplier   Value
	Name         string
}

// MultiplicativeDef: x * Value.
type MultiplicativeDef struct {
	Value Value
	Name  string
}

// AdditiveDef: x + Value.
type AdditiveDef struct {
	Value Value
	Name  string
}

// ClampDef bounds x; a nil bound is open.
type ClampDef struct {
	Min  *Value
	Max  *Value
	Name string
}

// MapTransformDef: x + Multiplier × sum(Dependencies).
type MapTransformDef struct {
	Dependencies []string
	Multiplier   Value
	Name         string
}

// ConditionalDef applies Then when "ConditionStat <Operator> ConditionValue"
// holds and Else (nil → no-op) otherwise. Then/Else nest arbitrarily.
type ConditionalDef struct {
	ConditionStat  string
	ConditionValue Value
	Operator       stat.Operator
	Then           TransformDef
	Else           TransformDef
	Name           string
}

func (ConstantDef) isSourceDef()  {}
func (ScalingDef) isSourceDef()   {}
func (MapSourceDef) isSourceDef() {}

func (ConstantDef) Kind() string  { return "constant" }
func (ScalingDef) Kind() string   { return "scaling" }
func (MapSourceDef) Kind() string { return "map" }

func (MultiplicativeDef) isTransformDef() {}
func (AdditiveDef) isTransformDef()       {}
func (ClampDef) isTransformDef()          {}
func (MapTransformDef) isTransformDef()   {}
func (ConditionalDef) isTransformDef()    {}

func (MultiplicativeDef) Kind() string { return "multiplicative" }
func (AdditiveDef) Kind() string       { return "additive" }
func (ClampDef) Kind() string          { return "clamp" }
func (MapTransformDef) Kind() string   { return "map" }
func (ConditionalDef) Kind() string    { return "conditional" }

// StatDefinition: sources (суммируются) и transforms (применяются по порядку).
type StatDefinition struct {
	Name       string
	Sources    []SourceDef
	Transforms []TransformDef
}

// Template is a StatDefinition whose fields may hold placeholders.
// Shared across instantiations, НЕ модифицировать после загрузки.
type Template struct {
	Name        string
	Description string
	Sources     []SourceDef
	Transforms  []TransformDef
}

// Definition returns the template body as a StatDefinition named like the template.
func (t Template) Definition() StatDefinition {
	return StatDefinition{Name: t.Name, Sources: t.Sources, Transforms: t.Transforms}
}

// Document is a parsed definition file. Declaration order is preserved.
type Document struct {
	Stats     []StatDefinition
	Templates []Template
}
