package relevance

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pipeline"
)

// Stage 是一个 Relevance Stage：用 fit 切分对当前数据集的预测变量评分，
// 把评分与入选集合写入 RunContext，并从当前数据集中剔除未入选/被跳过的列。
type Stage struct {
	Threshold      float64 // 调整分阈值；建议默认 0.02
	FitSplit       string  // 评分用的拟合切分名；为空时取 "fit"
	MaxBins        int     // 0 表示默认值
	MaxCardinality int     // 0 表示默认值
	Concurrency    int     // 0 表示不限制
}

func (s *Stage) Name() string        { return "relevance" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindRelevance }

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

	var opts []Option
	if s.MaxBins > 0 {
		opts = append(opts, WithMaxBins(s.MaxBins))
	}
	if s.MaxCardinality > 0 {
		opts = append(opts, WithMaxCardinality(s.MaxCardinality))
	}
	if s.Concurrency > 0 {
		opts = append(opts, WithConcurrency(s.Concurrency))
	}

	set, err := ScorePredictors(fit, ds, rctx.Response, opts...)
	if err != nil {
		return nil, err
	}

	selected := Select(set, s.Threshold)
	rctx.Scores = set.Scores
	rctx.Skipped = set.Skipped
	rctx.Selected = selected

	keep := make(map[string]bool, len(selected))
	for _, name := range selected {
		keep[name] = true
	}
	var rejects []string
	for _, name := range ds.Schema().Predictors(rctx.Response) {
		if !keep[name] {
			rejects = append(rejects, name)
		}
	}
	return ds.DropColumns(rejects...)
}

var _ pipeline.Stage = (*Stage)(nil)
