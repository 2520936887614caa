package statdef

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Params maps placeholder names to values for one template instantiation.
type Params map[string]float64

// placeholderRe matches a whole-field placeholder: {{identifier}}.
// No whitespace, no surrounding text.
var placeholderRe = regexp.MustCompile(`^\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}$`)

// Value is a numeric definition field: either a literal or a {{name}} placeholder.
// The zero Value is the literal 0.
type Value struct {
	num   float64
	param string
}

// Literal returns a literal Value.
func Literal(v float64) Value { return Value{num: v} }

// Placeholder returns a Value bound to the named parameter.
func Placeholder(name string) Value { return Value{param: name} }

// IsPlaceholder reports whether v references a parameter.
func (v Value) IsPlaceholder() bool { return v.param != "" }

// Param returns the referenced parameter name ("" for literals).
func (v Value) Param() string { return v.param }

// Float returns the literal number; ok is false for placeholders.
func (v Value) Float() (f float64, ok bool) {
	if v.IsPlaceholder() {
		return 0, false
	}
	return v.num, true
}

func (v Value) String() string {
	if v.IsPlaceholder() {
		return "{{" + v.param + "}}"
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Resolve substitutes the placeholder from params. Literals are returned unchanged.
// An absent parameter is an error, never a default.
func (v Value) Resolve(params Params) (float64, error) {
	if !v.IsPlaceholder() {
		return v.num, nil
	}
	f, ok := params[v.param]
	if !ok {
		return 0, &MissingParameterError{Name: v.param}
	}
	return f, nil
}

// ParseValueString classifies the text form of a numeric field.
//
// "{{name}}" → Placeholder(name). A finite number written as a string ("12.5")
// is accepted as a literal. Anything else is ErrInvalidPlaceholder: unbalanced
// or embedded braces, whitespace inside the braces, text around the placeholder.
func ParseValueString(s string) (Value, error) {
	if m := placeholderRe.FindStringSubmatch(s); m != nil {
		return Placeholder(m[1]), nil
	}
	if !strings.ContainsAny(s, "{}") {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return Literal(f), nil
		}
	}
	return Value{}, fmt.Errorf("%w: %q", ErrInvalidPlaceholder, s)
}
