package pipeline

import (
	"context"

	"github.com/rushteam/prepkit/core"
)

// Pipeline 是 prepkit 的核心抽象：把特征预处理流程拆成可组合的 Stage 链。
// 数据严格单向流动（Partition → Relevance → Treatment → Redundancy），
// 任何阶段都不依赖后续阶段。
type Pipeline struct {
	Stages []Stage
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RunContext,
	ds *core.Dataset,
) (*core.Dataset, error) {
	cur := ds
	for _, stage := range p.Stages {
		next, err := stage.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
