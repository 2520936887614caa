package statdef

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// EncodeJSON renders doc back into the definition text format, indented.
// Declaration order of stats, templates and fields is kept, so the output
// parses back into an equal Document.
func EncodeJSON(doc *Document) ([]byte, error) {
	raw, err := documentObject(doc).MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// EncodeYAML renders doc as YAML. Placeholders come out quoted.
func EncodeYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(documentObject(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders the registry as a templates document.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return documentObject(&Document{Templates: r.Templates()}).MarshalJSON()
}

// object is a JSON/YAML mapping with stable key order.
type object []field

type field struct {
	key string
	val any
}

func (o object) with(key string, val any) object { return append(o, field{key, val}) }

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalJSON(f.key)
		if err != nil {
			return nil, err
		}
		v, err := marshalJSON(f.val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o object) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range o {
		var k, v yaml.Node
		if err := k.Encode(f.key); err != nil {
			return nil, err
		}
		if err := v.Encode(f.val); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &k, &v)
	}
	return n, nil
}

// MarshalJSON writes literals as numbers and placeholders as "{{name}}".
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsPlaceholder() {
		return marshalJSON(v.String())
	}
	return marshalJSON(v.num)
}

func (v Value) MarshalYAML() (any, error) {
	if v.IsPlaceholder() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String(), Style: yaml.DoubleQuotedStyle}, nil
	}
	return v.num, nil
}

func documentObject(doc *Document) object {
	var root object
	if len(doc.Stats) > 0 {
		stats := object{}
		for _, s := range doc.Stats {
			stats = stats.with(s.Name, bodyObject(nil, s.Sources, s.Transforms))
		}
		root = root.with("stats", stats)
	}
	if len(doc.Templates) > 0 || len(doc.Stats) == 0 {
		templates := object{}
		for _, t := range doc.Templates {
			var head object
			if t.Description != "" {
				head = head.with("description", t.Description)
			}
			templates = templates.with(t.Name, bodyObject(head, t.Sources, t.Transforms))
		}
		root = root.with("templates", templates)
	}
	return root
}

func bodyObject(head object, sources []SourceDef, transforms []TransformDef) object {
	srcs := make([]object, 0, len(sources))
	for _, s := range sources {
		srcs = append(srcs, sourceObject(s))
	}
	ts := make([]object, 0, len(transforms))
	for _, t := range transforms {
		ts = append(ts, transformObject(t))
	}
	return head.with("sources", srcs).with("transforms", ts)
}

func sourceObject(def SourceDef) object {
	o := object{}.with("type", def.Kind())
	switch d := def.(type) {
	case ConstantDef:
		o = withName(o.with("value", d.Value), d.Name)
	case ScalingDef:
		o = withName(o.with("base", d.Base).with("scale", d.Scale).with("level", d.Level), d.Name)
	case MapSourceDef:
		o = withName(o.with("dependencies", d.Dependencies).with("multiplier", d.Multiplier), d.Name)
	}
	return o
}

func transformObject(def TransformDef) object {
	o := object{}.with("type", def.Kind())
	switch d := def.(type) {
	case MultiplicativeDef:
		o = withName(o.with("value", d.Value), d.Name)
	case AdditiveDef:
		o = withName(o.with("value", d.Value), d.Name)
	case ClampDef:
		if d.Min != nil {
			o = o.with("min", *d.Min)
		}
		if d.Max != nil {
			o = o.with("max", *d.Max)
		}
		o = withName(o, d.Name)
	case MapTransformDef:
		o = withName(o.with("dependencies", d.Dependencies).with("multiplier", d.Multiplier), d.Name)
	case ConditionalDef:
		o = o.with("condition_stat", d.ConditionStat).
			with("condition_value", d.ConditionValue).
			with("operator", d.Operator.String()).
			with("then", transformObject(d.Then))
		if d.Else != nil {
			o = o.with("else_then", transformObject(d.Else))
		}
		o = withName(o, d.Name)
	}
	return o
}

func withName(o object, name string) object {
	if name == "" {
		return o
	}
	return o.with("name", name)
}

// marshalJSON is json.Marshal without HTML escaping: operators like ">=" stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
