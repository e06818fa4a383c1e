package filter

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pipeline"
)

// Stage 是过滤 Stage，可以组合多个行过滤器进行过滤。
// 如果任何一个过滤器返回 true，该记录就会被移除。
type Stage struct {
	Filters []RowFilter
}

func (s *Stage) Name() string {
	return "filter.stage"
}

func (s *Stage) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (s *Stage) Process(
	ctx context.Context,
	rctx *core.RunContext,
	ds *core.Dataset,
) (*core.Dataset, error) {
	if len(s.Filters) == 0 || ds == nil || ds.Len() == 0 {
		return ds, nil
	}

	kept := make([]int, 0, ds.Len())

	for i := 0; i < ds.Len(); i++ {
		record := ds.Record(i)
		shouldFilter := false

		// 依次检查每个过滤器
		for _, f := range s.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, record)
			if err != nil {
				// 过滤器错误时记录该行保留，不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				break
			}
		}

		if shouldFilter {
			continue
		}
		kept = append(kept, i)
	}

	return ds.Select(kept)
}

var _ pipeline.Stage = (*Stage)(nil)
