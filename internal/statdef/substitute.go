package statdef

import (
	"fmt"
	"sort"
)

// SubstituteSource returns a copy of def with every placeholder bound from params.
func SubstituteSource(def SourceDef, params Params) (SourceDef, error) {
	switch d := def.(type) {
	case ConstantDef:
		v, err := d.Value.Resolve(params)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		d.Value = Literal(v)
		return d, nil

	case ScalingDef:
		var err error
		if d.Base, err = bind(d.Base, params, "base"); err != nil {
			return nil, err
		}
		if d.Scale, err = bind(d.Scale, params, "scale"); err != nil {
			return nil, err
		}
		if d.Level, err = bind(d.Level, params, "level"); err != nil {
			return nil, err
		}
		return d, nil

	case MapSourceDef:
		var err error
		if d.Multiplier, err = bind(d.Multiplier, params, "multiplier"); err != nil {
			return nil, err
		}
		d.Dependencies = append([]string(nil), d.Dependencies...)
		return d, nil

	default:
		return nil, fmt.Errorf("%w: source %T", ErrUnknownVariant, def)
	}
}

// SubstituteTransform returns a copy of def with every placeholder bound from
// params, including nested conditional branches.
func SubstituteTransform(def TransformDef, params Params) (TransformDef, error) {
	switch d := def.(type) {
	case MultiplicativeDef:
		var err error
		if d.Value, err = bind(d.Value, params, "value"); err != nil {
			return nil, err
		}
		return d, nil

	case AdditiveDef:
		var err error
		if d.Value, err = bind(d.Value, params, "value"); err != nil {
			return nil, err
		}
		return d, nil

	case ClampDef:
		var err error
		if d.Min, err = bindOptional(d.Min, params, "min"); err != nil {
			return nil, err
		}
		if d.Max, err = bindOptional(d.Max, params, "max"); err != nil {
			return nil, err
		}
		return d, nil

	case MapTransformDef:
		var err error
		if d.Multiplier, err = bind(d.Multiplier, params, "multiplier"); err != nil {
			return nil, err
		}
		d.Dependencies = append([]string(nil), d.Dependencies...)
		return d, nil

	case ConditionalDef:
		var err error
		if d.ConditionValue, err = bind(d.ConditionValue, params, "condition_value"); err != nil {
			return nil, err
		}
		if d.Then == nil {
			return nil, fmt.Errorf("%w: then", ErrMissingField)
		}
		if d.Then, err = SubstituteTransform(d.Then, params); err != nil {
			return nil, fmt.Errorf("then: %w", err)
		}
		if d.Else != nil {
			if d.Else, err = SubstituteTransform(d.Else, params); err != nil {
				return nil, fmt.Errorf("else_then: %w", err)
			}
		}
		return d, nil

	default:
		return nil, fmt.Errorf("%w: transform %T", ErrUnknownVariant, def)
	}
}

// Substitute binds every placeholder of the definition. The receiver is not
// modified; the result holds literals only.
func (s StatDefinition) Substitute(params Params) (StatDefinition, error) {
	out := StatDefinition{
		Name:       s.Name,
		Sources:    make([]SourceDef, 0, len(s.Sources)),
		Transforms: make([]TransformDef, 0, len(s.Transforms)),
	}
	for i, src := range s.Sources {
		b, err := SubstituteSource(src, params)
		if err != nil {
			return StatDefinition{}, fmt.Errorf("%q sources[%d]: %w", s.Name, i, err)
		}
		out.Sources = append(out.Sources, b)
	}
	for i, t := range s.Transforms {
		b, err := SubstituteTransform(t, params)
		if err != nil {
			return StatDefinition{}, fmt.Errorf("%q transforms[%d]: %w", s.Name, i, err)
		}
		out.Transforms = append(out.Transforms, b)
	}
	return out, nil
}

// Substitute instantiates the template with params.
func (t Template) Substitute(params Params) (StatDefinition, error) {
	def, err := t.Definition().Substitute(params)
	if err != nil {
		return StatDefinition{}, fmt.Errorf("template %w", err)
	}
	return def, nil
}

// Placeholders returns the parameter names the template references, sorted.
func (t Template) Placeholders() []string {
	seen := make(map[string]struct{})
	add := func(vs ...Value) {
		for _, v := range vs {
			if v.IsPlaceholder() {
				seen[v.Param()] = struct{}{}
			}
		}
	}
	for _, src := range t.Sources {
		switch d := src.(type) {
		case ConstantDef:
			add(d.Value)
		case ScalingDef:
			add(d.Base, d.Scale, d.Level)
		case MapSourceDef:
			add(d.Multiplier)
		}
	}
	var walk func(TransformDef)
	walk = func(td TransformDef) {
		switch d := td.(type) {
		case MultiplicativeDef:
			add(d.Value)
		case AdditiveDef:
			add(d.Value)
		case ClampDef:
			if d.Min != nil {
				add(*d.Min)
			}
			if d.Max != nil {
				add(*d.Max)
			}
		case MapTransformDef:
			add(d.Multiplier)
		case ConditionalDef:
			add(d.ConditionValue)
			if d.Then != nil {
				walk(d.Then)
			}
			if d.Else != nil {
				walk(d.Else)
			}
		}
	}
	for _, td := range t.Transforms {
		walk(td)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func bind(v Value, params Params, field string) (Value, error) {
	f, err := v.Resolve(params)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", field, err)
	}
	return Literal(f), nil
}

func bindOptional(v *Value, params Params, field string) (*Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := bind(*v, params, field)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
