package statdef

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/statforge/internal/stat"
)

// Parse decodes a definition document.
//
// JSON and YAML are both accepted and produce equal Documents.
// Two top-level keys are recognised:
//
//	{"stats":     {<name>: {"sources": [...], "transforms": [...]}}}
//	{"templates": {<name>: {"description": "...", "sources": [...], "transforms": [...]}}}
//
// Any other top-level key is rejected. Parse validates shape only: placeholder
// existence and dependency cycles are checked later.
//
// In YAML, placeholders must be quoted ("{{level}}"), otherwise they parse as
// a flow mapping.
func Parse(data []byte) (*Document, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}
	top, err := fields(root, "<document>")
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, e := range top {
		switch e.key {
		case "stats":
			doc.Stats, err = parseStats(e.val)
		case "templates":
			doc.Templates, err = parseTemplates(e.val)
		default:
			err = errAt(e.keyNode, "<document>", ErrParse, "unknown top-level key %q", e.key)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// decodeRoot returns the top-level node of the document.
//
// Text starting with '{' is decoded as JSON first: the YAML decoder rejects
// some valid JSON (the \/ escape, keys longer than 1024 bytes). A YAML flow
// mapping also starts with '{', so a JSON syntax error falls back to YAML.
func decodeRoot(data []byte) (*yaml.Node, error) {
	if !looksLikeJSON(data) {
		return decodeYAML(data)
	}
	n, jsonErr := decodeJSON(data)
	if jsonErr == nil {
		return n, nil
	}
	// Синтаксически верный JSON с плохим значением не перечитываем как YAML.
	if errors.Is(jsonErr, ErrParse) {
		return nil, jsonErr
	}
	if n, err := decodeYAML(data); err == nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrParse, jsonErr)
}

func decodeYAML(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrParse)
	}
	return root.Content[0], nil
}

func parseStats(n *yaml.Node) ([]StatDefinition, error) {
	entries, err := fields(n, "stats")
	if err != nil {
		return nil, err
	}
	out := make([]StatDefinition, 0, len(entries))
	for _, e := range entries {
		loc := fmt.Sprintf("stat %q", e.key)
		body, err := fields(e.val, loc)
		if err != nil {
			return nil, err
		}
		if err := checkKeys(body, loc, "sources", "transforms"); err != nil {
			return nil, err
		}
		def := StatDefinition{Name: e.key}
		if def.Sources, def.Transforms, err = parseBody(body, loc); err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func parseTemplates(n *yaml.Node) ([]Template, error) {
	entries, err := fields(n, "templates")
	if err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(entries))
	for _, e := range entries {
		loc := fmt.Sprintf("template %q", e.key)
		body, err := fields(e.val, loc)
		if err != nil {
			return nil, err
		}
		if err := checkKeys(body, loc, "description", "sources", "transforms"); err != nil {
			return nil, err
		}
		t := Template{Name: e.key}
		if t.Description, err = optionalString(body, "description", loc); err != nil {
			return nil, err
		}
		if t.Sources, t.Transforms, err = parseBody(body, loc); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseBody(body entries, loc string) ([]SourceDef, []TransformDef, error) {
	var sources []SourceDef
	if n := body.get("sources"); n != nil && !isNull(n) {
		if n.Kind != yaml.SequenceNode {
			return nil, nil, errAt(n, loc, ErrParse, "sources must be a list")
		}
		sources = make([]SourceDef, 0, len(n.Content))
		for i, item := range n.Content {
			src, err := parseSource(item, fmt.Sprintf("%s sources[%d]", loc, i))
			if err != nil {
				return nil, nil, err
			}
			sources = append(sources, src)
		}
	}

	var transforms []TransformDef
	if n := body.get("transforms"); n != nil && !isNull(n) {
		if n.Kind != yaml.SequenceNode {
			return nil, nil, errAt(n, loc, ErrParse, "transforms must be a list")
		}
		transforms = make([]TransformDef, 0, len(n.Content))
		for i, item := range n.Content {
			t, err := parseTransform(item, fmt.Sprintf("%s transforms[%d]", loc, i))
			if err != nil {
				return nil, nil, err
			}
			transforms = append(transforms, t)
		}
	}
	return sources, transforms, nil
}

func parseSource(n *yaml.Node, loc string) (SourceDef, error) {
	f, err := fields(n, loc)
	if err != nil {
		return nil, err
	}
	tag, err := requireString(f, n, "type", loc)
	if err != nil {
		return nil, err
	}
	name, err := optionalString(f, "name", loc)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "constant":
		if err := checkKeys(f, loc, "type", "name", "value"); err != nil {
			return nil, err
		}
		v, err := requireValue(f, n, "value", loc)
		if err != nil {
			return nil, err
		}
		return ConstantDef{Value: v, Name: name}, nil

	case "scaling":
		if err := checkKeys(f, loc, "type", "name", "base", "scale", "level"); err != nil {
			return nil, err
		}
		def := ScalingDef{Name: name}
		if def.Base, err = requireValue(f, n, "base", loc); err != nil {
			return nil, err
		}
		if def.Scale, err = requireValue(f, n, "scale", loc); err != nil {
			return nil, err
		}
		if def.Level, err = requireValue(f, n, "level", loc); err != nil {
			return nil, err
		}
		return def, nil

	case "map":
		if err := checkKeys(f, loc, "type", "name", "dependencies", "multiplier"); err != nil {
			return nil, err
		}
		def := MapSourceDef{Name: name}
		if def.Dependencies, err = requireStringList(f, n, "dependencies", loc); err != nil {
			return nil, err
		}
		if def.Multiplier, err = requireValue(f, n, "multiplier", loc); err != nil {
			return nil, err
		}
		return def, nil

	default:
		return nil, errAt(f.get("type"), loc, ErrUnknownVariant, "source type %q", tag)
	}
}

func parseTransform(n *yaml.Node, loc string) (TransformDef, error) {
	f, err := fields(n, loc)
	if err != nil {
		return nil, err
	}
	tag, err := requireString(f, n, "type", loc)
	if err != nil {
		return nil, err
	}
	name, err := optionalString(f, "name", loc)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "multiplicative", "additive":
		if err := checkKeys(f, loc, "type", "name", "value"); err != nil {
			return nil, err
		}
		v, err := requireValue(f, n, "value", loc)
		if err != nil {
			return nil, err
		}
		if tag == "additive" {
			return AdditiveDef{Value: v, Name: name}, nil
		}
		return MultiplicativeDef{Value: v, Name: name}, nil

	case "clamp":
		if err := checkKeys(f, loc, "type", "name", "min", "max"); err != nil {
			return nil, err
		}
		def := ClampDef{Name: name}
		if def.Min, err = optionalValue(f, "min", loc); err != nil {
			return nil, err
		}
		if def.Max, err = optionalValue(f, "max", loc); err != nil {
			return nil, err
		}
		return def, nil

	case "map":
		if err := checkKeys(f, loc, "type", "name", "dependencies", "multiplier"); err != nil {
			return nil, err
		}
		def := MapTransformDef{Name: name}
		if def.Dependencies, err = requireStringList(f, n, "dependencies", loc); err != nil {
			return nil, err
		}
		if def.Multiplier, err = requireValue(f, n, "multiplier", loc); err != nil {
			return nil, err
		}
		return def, nil

	case "conditional":
		if err := checkKeys(f, loc, "type", "name", "condition_stat", "condition_value", "operator", "then", "else_then"); err != nil {
			return nil, err
		}
		def := ConditionalDef{Name: name}
		if def.ConditionStat, err = requireString(f, n, "condition_stat", loc); err != nil {
			return nil, err
		}
		if def.ConditionValue, err = requireValue(f, n, "condition_value", loc); err != nil {
			return nil, err
		}
		opText, err := requireString(f, n, "operator", loc)
		if err != nil {
			return nil, err
		}
		if def.Operator, err = stat.ParseOperator(opText); err != nil {
			return nil, errAt(f.get("operator"), loc, ErrInvalidDefinition, "%v", err)
		}
		thenNode := f.get("then")
		if thenNode == nil || isNull(thenNode) {
			return nil, errAt(n, loc, ErrMissingField, "then")
		}
		if def.Then, err = parseTransform(thenNode, loc+".then"); err != nil {
			return nil, err
		}
		if elseNode := f.get("else_then"); elseNode != nil && !isNull(elseNode) {
			if def.Else, err = parseTransform(elseNode, loc+".else_then"); err != nil {
				return nil, err
			}
		}
		return def, nil

	default:
		return nil, errAt(f.get("type"), loc, ErrUnknownVariant, "transform type %q", tag)
	}
}

// ---- yaml.Node helpers ------------------------------------------------------

type entry struct {
	key     string
	keyNode *yaml.Node
	val     *yaml.Node
}

// entries keeps mapping pairs in declaration order.
type entries []entry

func (es entries) get(key string) *yaml.Node {
	for _, e := range es {
		if e.key == key {
			return e.val
		}
	}
	return nil
}

// fields returns the key/value pairs of a mapping node, rejecting duplicates.
func fields(n *yaml.Node, loc string) (entries, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, loc, ErrParse, "expected a mapping")
	}
	out := make(entries, 0, len(n.Content)/2)
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolveAlias(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return nil, errAt(k, loc, ErrParse, "mapping keys must be strings")
		}
		if _, dup := seen[k.Value]; dup {
			return nil, errAt(k, loc, ErrParse, "duplicate key %q", k.Value)
		}
		seen[k.Value] = struct{}{}
		out = append(out, entry{key: k.Value, keyNode: k, val: v})
	}
	return out, nil
}

func checkKeys(f entries, loc string, allowed ...string) error {
	for _, e := range f {
		ok := false
		for _, a := range allowed {
			if e.key == a {
				ok = true
				break
			}
		}
		if !ok {
			return errAt(e.keyNode, loc, ErrParse, "unknown field %q", e.key)
		}
	}
	return nil
}

func requireString(f entries, parent *yaml.Node, key, loc string) (string, error) {
	n := f.get(key)
	if n == nil || isNull(n) {
		return "", errAt(parent, loc, ErrMissingField, "%s", key)
	}
	if n.Kind != yaml.ScalarNode {
		return "", errAt(n, loc, ErrParse, "%s must be a string", key)
	}
	return n.Value, nil
}

func optionalString(f entries, key, loc string) (string, error) {
	n := f.get(key)
	if n == nil || isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", errAt(n, loc, ErrParse, "%s must be a string", key)
	}
	return n.Value, nil
}

func requireStringList(f entries, parent *yaml.Node, key, loc string) ([]string, error) {
	n := f.get(key)
	if n == nil || isNull(n) {
		return nil, errAt(parent, loc, ErrMissingField, "%s", key)
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errAt(n, loc, ErrParse, "%s must be a list of stat names", key)
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return nil, errAt(item, loc, ErrParse, "%s must be a list of stat names", key)
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func requireValue(f entries, parent *yaml.Node, key, loc string) (Value, error) {
	n := f.get(key)
	if n == nil || isNull(n) {
		return Value{}, errAt(parent, loc, ErrMissingField, "%s", key)
	}
	return parseValue(n, key, loc)
}

func optionalValue(f entries, key, loc string) (*Value, error) {
	n := f.get(key)
	if n == nil || isNull(n) {
		return nil, nil
	}
	v, err := parseValue(n, key, loc)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseValue classifies a numeric field: number → Literal, string → ParseValueString.
func parseValue(n *yaml.Node, key, loc string) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return Value{}, errAt(n, loc, ErrParse, "%s must be a number or a placeholder", key)
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, errAt(n, loc, ErrParse, "%s: %v", key, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, errAt(n, loc, ErrParse, "%s must be a finite number, got %s", key, n.Value)
		}
		return Literal(f), nil
	case "!!str":
		v, err := ParseValueString(n.Value)
		if err != nil {
			return Value{}, fmt.Errorf("%s (line %d) %s: %w", loc, n.Line, key, err)
		}
		return v, nil
	default:
		return Value{}, errAt(n, loc, ErrParse, "%s must be a number or a placeholder, got %s", key, n.ShortTag())
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func errAt(n *yaml.Node, loc string, kind error, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return fmt.Errorf("%s (line %d): %w: %s", loc, line, kind, fmt.Sprintf(format, args...))
}
