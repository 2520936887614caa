package stat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_SumsSourcesThenTransforms(t *testing.T) {
	r := NewResolver()
	r.RegisterSource("HP", Constant(100))
	r.RegisterSource("HP", Constant(50))
	r.RegisterTransform("HP", Multiplicative(1.5))

	res, err := r.Resolve("HP", nil)
	require.NoError(t, err)
	assert.Equal(t, 225.0, res.Value)
	assert.Len(t, res.Sources, 2)
	require.Len(t, res.Transforms, 1)
	assert.Equal(t, 225.0, res.Transforms[0].Value)
}

func TestResolver_TransformOrder(t *testing.T) {
	mulFirst := NewResolver()
	mulFirst.RegisterSource("X", Constant(10))
	mulFirst.RegisterTransform("X", Multiplicative(2))
	mulFirst.RegisterTransform("X", Additive(3))

	addFirst := NewResolver()
	addFirst.RegisterSource("X", Constant(10))
	addFirst.RegisterTransform("X", Additive(3))
	addFirst.RegisterTransform("X", Multiplicative(2))

	a, err := mulFirst.Resolve("X", nil)
	require.NoError(t, err)
	b, err := addFirst.Resolve("X", nil)
	require.NoError(t, err)

	assert.Equal(t, 23.0, a.Value)
	assert.Equal(t, 26.0, b.Value)
	assert.NotEqual(t, a.Value, b.Value)
}

func TestResolver_UnknownStat(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve("Nope", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStat))
	assert.False(t, r.Has("Nope"))
}

func TestResolver_Dependencies(t *testing.T) {
	r := NewResolver()
	r.RegisterSource("STR", Constant(20))
	r.RegisterSource("DEX", Constant(10))
	r.RegisterSource("ATK", NewMapSource([]ID{"STR", "DEX"}, 2))
	r.RegisterTransform("ATK", NewMapTransform([]ID{"STR"}, 0.5))

	res, err := r.Resolve("ATK", nil)
	require.NoError(t, err)
	// 2*(20+10) + 0.5*20
	assert.Equal(t, 70.0, res.Value)
}

func TestResolver_MissingDependencyIsUnknownStat(t *testing.T) {
	r := NewResolver()
	r.RegisterSource("ATK", NewMapSource([]ID{"STR"}, 1))

	_, err := r.Resolve("ATK", nil)
	assert.ErrorIs(t, err, ErrUnknownStat)
}

func TestResolver_Cycle(t *testing.T) {
	r := NewResolver()
	r.RegisterSource("A", NewMapSource([]ID{"B"}, 1))
	r.RegisterSource("B", NewMapSource([]ID{"A"}, 1))

	_, err := r.Resolve("A", nil)
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestResolver_CacheAndInvalidate(t *testing.T) {
	r := NewResolver()
	r.RegisterSource("VIT", Constant(10))
	r.RegisterSource("HP", NewMapSource([]ID{"VIT"}, 10))

	res, err := r.Resolve("HP", nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Value)

	// Новый source на зависимость инвалидирует зависимый стат.
	r.RegisterSource("VIT", Constant(5))
	res, err = r.Resolve("HP", nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.Value)

	r.Invalidate("VIT")
	res, err = r.Resolve("HP", nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.Value)

	r.InvalidateAll()
	res, err = r.Resolve("VIT", nil)
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.Value)
}

func TestResolver_IDs(t *testing.T) {
	r := NewResolver()
	r.RegisterTransform("b", Additive(1))
	r.RegisterSource("a", Constant(1))
	r.RegisterSource("b", Constant(1))

	assert.Equal(t, []ID{"a", "b"}, r.IDs())
}

func TestClamp(t *testing.T) {
	lo := 50.0
	c := NewClamp(&lo, nil)

	v, err := c.Apply(10, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)

	v, err = c.Apply(80, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, v)
}

func TestConditional(t *testing.T) {
	cond := NewConditional("Vitality", OpGreaterEqual, 20, Multiplicative(1.2), nil)
	assert.Equal(t, []ID{"Vitality"}, cond.DependsOn())

	v, err := cond.Apply(100, map[ID]float64{"Vitality": 25}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, v, 1e-9)

	v, err = cond.Apply(100, map[ID]float64{"Vitality": 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	_, err = cond.Apply(100, map[ID]float64{}, nil)
	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ID("Vitality"), missing.ID)
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		op   Operator
		a, b float64
		want bool
	}{
		{">", OpGreater, 2, 1, true},
		{"<", OpLess, 2, 1, false},
		{">=", OpGreaterEqual, 1, 1, true},
		{"<=", OpLessEqual, 0, 1, true},
		{"==", OpEqual, 0.1 + 0.2, 0.3, true},
	}

	for _, tt := range tests {
		op, err := ParseOperator(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.op, op)
		assert.Equal(t, tt.in, op.String())
		assert.Equal(t, tt.want, op.Compare(tt.a, tt.b), "%g %s %g", tt.a, tt.in, tt.b)
	}

	for _, bad := range []string{"=>", "!=", "=", "<>", ""} {
		_, err := ParseOperator(bad)
		assert.Error(t, err, bad)
	}
}

func TestContext(t *testing.T) {
	var nilCtx *Context
	_, ok := nilCtx.Get("level")
	assert.False(t, ok)

	ctx := NewContext().Set("level", 5)
	v, ok := ctx.Get("level")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}
