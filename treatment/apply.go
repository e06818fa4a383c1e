package treatment

import (
	"fmt"

	"github.com/rushteam/prepkit/core"
)

// Apply 把冻结的计划应用到一个数据集，返回全数值的编码数据集。
// 只使用拟合时冻结的统计量，绝不从 ds 重算；对相同输入输出逐条一致。
// 拟合时未见过的类别映射到 other 桶，因此输出 Schema 与 ds 无关。
func (p *Plan) Apply(ds *core.Dataset) (*core.Dataset, error) {
	// 先整体校验，再开始产出：阶段要么完整成功，要么原子失败。
	for _, name := range p.order {
		colType, ok := ds.Schema().Type(name)
		if !ok {
			return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodeUnknownPredictor,
				fmt.Sprintf("treatment: dataset lacks predictor %q expected by plan", name))
		}
		if colType != p.types[name] {
			return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodePlanTypeMismatch,
				fmt.Sprintf("treatment: predictor %q is %s, plan was fit on %s", name, colType, p.types[name]))
		}
	}

	n := ds.Len()
	columns := make(map[string][]core.Value, p.outSchema.Len())

	for _, name := range p.order {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		switch p.types[name] {
		case core.Numeric:
			p.applyNumeric(name, col, n, columns)
		case core.Categorical:
			p.applyCategorical(name, col, n, columns)
		}
	}

	return core.NewDataset(p.outSchema, columns)
}

func (p *Plan) applyNumeric(name string, col []core.Value, n int, out map[string][]core.Value) {
	t := p.numeric[name]
	clean := make([]core.Value, n)
	var bad []core.Value
	if t.HasMissing {
		bad = make([]core.Value, n)
	}

	for i, v := range col {
		x := t.Mean
		isBad := 1.0
		if !v.Missing() {
			x = v.Float()
			isBad = 0
		}
		if t.Collar {
			if x < t.Lower {
				x = t.Lower
			}
			if x > t.Upper {
				x = t.Upper
			}
		}
		clean[i] = core.Num(x)
		if bad != nil {
			bad[i] = core.Num(isBad)
		}
	}

	out[name] = clean
	if bad != nil {
		out[badColumn(name)] = bad
	}
}

func (p *Plan) applyCategorical(name string, col []core.Value, n int, out map[string][]core.Value) {
	t := p.categorical[name]

	indicators := make(map[string][]core.Value, len(t.Order)+2)
	for _, level := range t.Order {
		indicators[levColumn(name, level)] = makeZeros(n)
	}
	naCol := makeZeros(n)
	otherCol := makeZeros(n)
	prev := make([]core.Value, n)
	impact := make([]core.Value, n)

	for i, v := range col {
		var code LevelCode
		switch {
		case v.Missing():
			code = t.Missing
			naCol[i] = core.Num(1)
		default:
			if c, ok := t.Levels[v.Str()]; ok {
				code = c
				indicators[levColumn(name, v.Str())][i] = core.Num(1)
			} else {
				// 稀有或拟合时未见过的类别统一落进 other 桶。
				code = t.Other
				otherCol[i] = core.Num(1)
			}
		}
		prev[i] = core.Num(code.Prevalence)
		impact[i] = core.Num(code.Impact)
	}

	for colName, values := range indicators {
		out[colName] = values
	}
	out[naColumn(name)] = naCol
	out[otherColumn(name)] = otherCol
	out[prevColumn(name)] = prev
	out[impactColumn(name)] = impact
}

func makeZeros(n int) []core.Value {
	values := make([]core.Value, n)
	for i := range values {
		values[i] = core.Num(0)
	}
	return values
}
