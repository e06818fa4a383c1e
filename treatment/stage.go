package treatment

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pipeline"
)

// Stage 是一个 Treatment Stage：在 fit 切分上为入选预测变量拟合处理计划，
// 把计划写入 RunContext，并把应用到当前数据集得到的编码矩阵
//（附带响应列透传）交给下游。
type Stage struct {
	Options  Options
	FitSplit string // 拟合计划用的切分名；为空时取 "fit"
	// Predictors 显式指定要编码的变量；为空时取 RunContext.Selected，
	// 再退回当前数据集的全部预测变量。
	Predictors []string
}

func (s *Stage) Name() string        { return "treatment" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindTreatment }

func (s *Stage) Process(
	ctx context.Context,
	rctx *core.RunContext,
	ds *core.Dataset,
) (*core.Dataset, error) {
	fitSplit := s.FitSplit
	if fitSplit == "" {
		fitSplit = "fit"
	}
	fit, err := rctx.Split(fitSplit)
	if err != nil {
		return nil, err
	}

	predictors := s.Predictors
	if len(predictors) == 0 {
		predictors = rctx.Selected
	}
	if len(predictors) == 0 {
		predictors = ds.Schema().Predictors(rctx.Response)
	}

	plan, err := Fit(fit, predictors, rctx.Response, s.Options)
	if err != nil {
		return nil, err
	}
	rctx.Plan = plan

	encoded, err := plan.Apply(ds)
	if err != nil {
		return nil, err
	}
	return withResponse(encoded, ds, rctx.Response)
}

// withResponse 把原数据集的响应列透传到编码矩阵，供下游训练使用。
func withResponse(encoded, src *core.Dataset, response string) (*core.Dataset, error) {
	if !src.Schema().Has(response) {
		return encoded, nil
	}
	respCol, err := src.Column(response)
	if err != nil {
		return nil, err
	}

	columns := make(map[string][]core.Value, encoded.Schema().Len()+1)
	specs := make([]core.Column, 0, encoded.Schema().Len()+1)
	for _, name := range encoded.Schema().Columns() {
		col, err := encoded.Column(name)
		if err != nil {
			return nil, err
		}
		columns[name] = col
		specs = append(specs, core.Column{Name: name, Type: core.Numeric})
	}
	columns[response] = respCol
	specs = append(specs, core.Column{Name: response, Type: core.Numeric})

	schema, err := core.NewSchema(specs...)
	if err != nil {
		return nil, err
	}
	return core.NewDataset(schema, columns)
}

var _ pipeline.Stage = (*Stage)(nil)
