package testutil

import (
	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/statdef"
)

// TemplatesJSON: набор шаблонов для тестов: атрибут, HP с зависимостью от
// Vitality и бонусом за порог.
const TemplatesJSON = `{
  "templates": {
    "Attribute": {
      "description": "flat attribute value",
      "sources": [{"type": "constant", "value": "{{value}}"}]
    },
    "BaseHP": {
      "description": "level-scaled hit points",
      "sources": [
        {"type": "scaling", "base": "{{base}}", "scale": "{{per_level}}", "level": "{{level}}"}
      ],
      "transforms": [
        {"type": "map", "dependencies": ["Vitality"], "multiplier": 10},
        {"type": "conditional", "condition_stat": "Vitality", "condition_value": 20, "operator": ">=",
         "then": {"type": "multiplicative", "value": 1.2}}
      ]
    }
  }
}`

// ArcherConfigs возвращает конфиги сущности в порядке зависимостей
// (Vitality до HP). HP = (100 + 10*5 + 10*25) * 1.2 = 480.
func ArcherConfigs(entityID string) []entity.StatConfig {
	return entity.ConfigsForEntity(entityID, []entity.Mapping{
		{StatType: "Vitality", TemplateName: "Attribute", Params: statdef.Params{"value": 25}},
		{StatType: "HP", TemplateName: "BaseHP", Params: statdef.Params{"base": 100, "per_level": 10, "level": 5}},
	})
}
