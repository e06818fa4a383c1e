package redundancy

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pipeline"
)

// Stage 是一个 Redundancy Stage：在编码后的数值矩阵上找出冗余列并剔除，
// 丢弃顺序写入 RunContext.Dropped。响应列不参与相关性计算。
type Stage struct {
	Method Method  // 为空时取 Spearman
	Cutoff float64 // 绝对相关阈值，(0, 1]
}

func (s *Stage) Name() string        { return "redundancy" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindRedundancy }

func (s *Stage) Process(
	ctx context.Context,
	rctx *core.RunContext,
	ds *core.Dataset,
) (*core.Dataset, error) {
	candidates := ds
	if ds.Schema().Has(rctx.Response) {
		var err error
		candidates, err = ds.DropColumns(rctx.Response)
		if err != nil {
			return nil, err
		}
	}

	drops, err := FindRedundant(candidates, s.Method, s.Cutoff)
	if err != nil {
		return nil, err
	}
	rctx.Dropped = drops
	return ds.DropColumns(drops...)
}

var _ pipeline.Stage = (*Stage)(nil)
