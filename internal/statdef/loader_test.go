package statdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statforge/internal/stat"
)

const statsJSON = `{
  "stats": {
    "HP": {
      "sources": [
        {"type": "constant", "value": 100, "name": "base"},
        {"type": "scaling", "base": 0, "scale": 10, "level": 5}
      ],
      "transforms": [
        {"type": "map", "dependencies": ["Vitality"], "multiplier": 2},
        {"type": "conditional", "condition_stat": "Vitality", "condition_value": 20, "operator": ">=",
         "then": {"type": "multiplicative", "value": 1.5}},
        {"type": "clamp", "max": 1000}
      ]
    },
    "Vitality": {
      "sources": [{"type": "constant", "value": 25}]
    }
  }
}`

func TestLoadFromJSON(t *testing.T) {
	r, err := LoadFromJSON([]byte(statsJSON))
	require.NoError(t, err)
	assert.Equal(t, []stat.ID{"HP", "Vitality"}, r.IDs())

	res, err := r.Resolve("HP", nil)
	require.NoError(t, err)
	// (100 + 50 + 2*25) * 1.5 = 300
	assert.InDelta(t, 300.0, res.Value, 1e-9)
	assert.Len(t, res.Sources, 2)
	assert.Len(t, res.Transforms, 3)
}

func TestResolveStatFromJSON(t *testing.T) {
	res, err := ResolveStatFromJSON([]byte(statsJSON), "Vitality")
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.Value)

	_, err = ResolveStatFromJSON([]byte(statsJSON), "Mana")
	assert.ErrorIs(t, err, stat.ErrUnknownStat)
}

func TestLoadFromJSON_PlaceholderInDirectDefinition(t *testing.T) {
	_, err := LoadFromJSON([]byte(`{"stats": {"HP": {"sources": [{"type": "constant", "value": "{{hp}}"}]}}}`))
	require.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), `stat "HP" sources[0]`)
}

func TestLoadFromJSON_InvalidDefinition(t *testing.T) {
	_, err := LoadFromJSON([]byte(`{"stats": {
		"A": {"sources": [{"type": "constant", "value": 1}]},
		"B": {"sources": [{"type": "map", "dependencies": [], "multiplier": 1}]}
	}}`))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestLoadFromJSON_IgnoresTemplates(t *testing.T) {
	r, err := LoadFromJSON([]byte(templatesJSON))
	require.NoError(t, err)
	assert.Empty(t, r.IDs())
}
