package statdef

import (
	"fmt"
	"strings"

	"github.com/udisondev/statforge/internal/stat"
)

// Compiled is a definition turned into engine instances, ready to register.
type Compiled struct {
	Sources    []stat.Source
	Transforms []stat.Transform
}

// Compile builds every source and transform of a substituted definition.
// Nothing is returned unless the whole definition builds.
func Compile(def StatDefinition, scope string) (Compiled, error) {
	out := Compiled{
		Sources:    make([]stat.Source, 0, len(def.Sources)),
		Transforms: make([]stat.Transform, 0, len(def.Transforms)),
	}
	for i, sd := range def.Sources {
		src, err := BuildSource(sd, scope)
		if err != nil {
			return Compiled{}, fmt.Errorf("%q sources[%d]: %w", def.Name, i, err)
		}
		out.Sources = append(out.Sources, src)
	}
	for i, td := range def.Transforms {
		t, err := BuildTransform(td, scope)
		if err != nil {
			return Compiled{}, fmt.Errorf("%q transforms[%d]: %w", def.Name, i, err)
		}
		out.Transforms = append(out.Transforms, t)
	}
	return out, nil
}

// BuildSource converts a literal-only source definition into a stat.Source.
//
// scope qualifies unqualified dependency names ("STR" → "scope:STR"); an empty
// scope keeps them verbatim.
func BuildSource(def SourceDef, scope string) (stat.Source, error) {
	switch d := def.(type) {
	case ConstantDef:
		v, err := literal(d.Value, "value")
		if err != nil {
			return nil, err
		}
		return stat.Constant(v), nil

	case ScalingDef:
		base, err := literal(d.Base, "base")
		if err != nil {
			return nil, err
		}
		scale, err := literal(d.Scale, "scale")
		if err != nil {
			return nil, err
		}
		level, err := literal(d.Level, "level")
		if err != nil {
			return nil, err
		}
		return stat.Constant(base + scale*level), nil

	case MapSourceDef:
		deps, err := dependencyIDs(d.Dependencies, scope)
		if err != nil {
			return nil, err
		}
		mult, err := literal(d.Multiplier, "multiplier")
		if err != nil {
			return nil, err
		}
		return stat.NewMapSource(deps, mult), nil

	case nil:
		return nil, fmt.Errorf("%w: nil source", ErrInvalidDefinition)

	default:
		return nil, fmt.Errorf("%w: source %T", ErrUnknownVariant, def)
	}
}

// BuildTransform converts a literal-only transform definition into a
// stat.Transform. Conditional branches are built depth-first; a missing else
// branch becomes stat.Identity.
func BuildTransform(def TransformDef, scope string) (stat.Transform, error) {
	switch d := def.(type) {
	case MultiplicativeDef:
		v, err := literal(d.Value, "value")
		if err != nil {
			return nil, err
		}
		return stat.Multiplicative(v), nil

	case AdditiveDef:
		v, err := literal(d.Value, "value")
		if err != nil {
			return nil, err
		}
		return stat.Additive(v), nil

	case ClampDef:
		lo, err := optionalLiteral(d.Min, "min")
		if err != nil {
			return nil, err
		}
		hi, err := optionalLiteral(d.Max, "max")
		if err != nil {
			return nil, err
		}
		if lo != nil && hi != nil && *lo > *hi {
			return nil, fmt.Errorf("%w: clamp min %g > max %g", ErrInvalidDefinition, *lo, *hi)
		}
		return stat.NewClamp(lo, hi), nil

	case MapTransformDef:
		deps, err := dependencyIDs(d.Dependencies, scope)
		if err != nil {
			return nil, err
		}
		mult, err := literal(d.Multiplier, "multiplier")
		if err != nil {
			return nil, err
		}
		return stat.NewMapTransform(deps, mult), nil

	case ConditionalDef:
		if d.ConditionStat == "" {
			return nil, fmt.Errorf("%w: empty condition_stat", ErrInvalidDefinition)
		}
		threshold, err := literal(d.ConditionValue, "condition_value")
		if err != nil {
			return nil, err
		}
		if d.Then == nil {
			return nil, fmt.Errorf("%w: conditional without then", ErrInvalidDefinition)
		}
		then, err := BuildTransform(d.Then, scope)
		if err != nil {
			return nil, fmt.Errorf("then: %w", err)
		}
		var els stat.Transform
		if d.Else != nil {
			if els, err = BuildTransform(d.Else, scope); err != nil {
				return nil, fmt.Errorf("else_then: %w", err)
			}
		}
		return stat.NewConditional(scopeID(scope, d.ConditionStat), d.Operator, threshold, then, els), nil

	case nil:
		return nil, fmt.Errorf("%w: nil transform", ErrInvalidDefinition)

	default:
		return nil, fmt.Errorf("%w: transform %T", ErrUnknownVariant, def)
	}
}

// ScopeOf returns the entity part of a composite stat id ("" if not composite).
func ScopeOf(statName string) string {
	entityID, _, ok := strings.Cut(statName, ":")
	if !ok {
		return ""
	}
	return entityID
}

func scopeID(scope, name string) stat.ID {
	if scope == "" || strings.Contains(name, ":") {
		return stat.ID(name)
	}
	return stat.ID(scope + ":" + name)
}

func dependencyIDs(names []string, scope string) ([]stat.ID, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty dependency list", ErrInvalidDefinition)
	}
	ids := make([]stat.ID, 0, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%w: empty dependency name", ErrInvalidDefinition)
		}
		ids = append(ids, scopeID(scope, n))
	}
	return ids, nil
}

func literal(v Value, field string) (float64, error) {
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s still holds placeholder %s", ErrInvalidDefinition, field, v)
	}
	return f, nil
}

func optionalLiteral(v *Value, field string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := literal(*v, field)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
