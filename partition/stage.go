package partition

import (
	"context"
	"strconv"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pipeline"
)

// 默认的切分命名：fit 用于拟合编码计划，train 用于建模与交叉校验，test 留作评估。
var defaultSplitNames = []string{"fit", "train", "test"}

// Stage 是一个 Partition Stage：分层切分数据集，把命名子集写入 RunContext，
// 并把 Emit 指定的子集作为当前数据集传给下游。
type Stage struct {
	Fractions  []float64 // 各子集比例，和为 1.0
	StratifyBy string    // 分层列；为空时使用 RunContext.Response
	Names      []string  // 子集命名；为空时使用 fit/train/test
	Emit       string    // 传给下游的子集名；为空时取 Names 的第二个（train）
}

func (s *Stage) Name() string        { return "partition" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindPartition }

func (s *Stage) Process(
	ctx context.Context,
	rctx *core.RunContext,
	ds *core.Dataset,
) (*core.Dataset, error) {
	stratifyBy := s.StratifyBy
	if stratifyBy == "" {
		stratifyBy = rctx.Response
	}

	names := s.Names
	if len(names) == 0 {
		names = splitNames(len(s.Fractions))
	}
	if len(names) != len(s.Fractions) {
		return nil, core.NewDomainError(core.ModulePartition, core.ErrorCodeInvalidInput,
			"partition: names and fractions must have the same length")
	}

	splits, err := Split(ds, s.Fractions, stratifyBy, rctx.Seed)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		rctx.Splits[name] = splits[i]
	}

	emit := s.Emit
	if emit == "" && len(names) > 1 {
		emit = names[1]
	} else if emit == "" {
		emit = names[0]
	}
	return rctx.Split(emit)
}

// splitNames 返回 k 份切分的默认命名：k 不超过三份时用 fit/train/test，
// 更多份时统一合成 split1..splitN。
func splitNames(k int) []string {
	if k <= len(defaultSplitNames) {
		return defaultSplitNames[:k]
	}
	names := make([]string, k)
	for i := range names {
		names[i] = "split" + strconv.Itoa(i+1)
	}
	return names
}

var _ pipeline.Stage = (*Stage)(nil)
