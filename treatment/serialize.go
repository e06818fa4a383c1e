package treatment

import (
	"encoding/json"

	"github.com/rushteam/prepkit/core"
)

// planJSON 是计划的持久化形态：只含冻结统计量与元数据，
// 输出 Schema 可以完全由它们重建，不随 JSON 存储。
type planJSON struct {
	Meta        Metadata                        `json:"meta"`
	Response    string                          `json:"response"`
	Options     Options                         `json:"options"`
	Order       []string                        `json:"order"`
	Types       map[string]string               `json:"types"`
	Numeric     map[string]NumericTreatment     `json:"numeric,omitempty"`
	Categorical map[string]CategoricalTreatment `json:"categorical,omitempty"`
}

// MarshalJSON 把计划序列化为 JSON。
// 序列化 → 反序列化 → Apply 必须与内存中的计划产出完全一致的列。
func (p *Plan) MarshalJSON() ([]byte, error) {
	types := make(map[string]string, len(p.types))
	for name, t := range p.types {
		types[name] = t.String()
	}
	return json.Marshal(planJSON{
		Meta:        p.meta,
		Response:    p.response,
		Options:     p.opts,
		Order:       p.order,
		Types:       types,
		Numeric:     p.numeric,
		Categorical: p.categorical,
	})
}

// UnmarshalJSON 从 JSON 恢复计划并重建输出 Schema。
func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw planJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	types := make(map[string]core.ColumnType, len(raw.Types))
	for name, s := range raw.Types {
		switch s {
		case core.Numeric.String():
			types[name] = core.Numeric
		case core.Categorical.String():
			types[name] = core.Categorical
		default:
			return core.NewDomainError(core.ModuleTreatment, core.ErrorCodeInvalidInput,
				"treatment: plan json has unknown column type "+s)
		}
	}

	p.meta = raw.Meta
	p.response = raw.Response
	p.opts = raw.Options
	p.order = raw.Order
	p.types = types
	p.numeric = raw.Numeric
	p.categorical = raw.Categorical
	if p.numeric == nil {
		p.numeric = make(map[string]NumericTreatment)
	}
	if p.categorical == nil {
		p.categorical = make(map[string]CategoricalTreatment)
	}

	schema, err := p.buildOutputSchema()
	if err != nil {
		return err
	}
	p.outSchema = schema
	return nil
}

// Marshal JSON 编码计划（Store 持久化入口）。
func Marshal(p *Plan) ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal 从 JSON 解码计划。
func Unmarshal(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
