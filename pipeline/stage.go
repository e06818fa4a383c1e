package pipeline

import (
	"context"

	"github.com/rushteam/prepkit/core"
)

// Kind 用于标记 Stage 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter     Kind = "filter"     // 行过滤阶段：剔除不参与拟合的记录
	KindPartition  Kind = "partition"  // 切分阶段：分层拆出 fit / train / test 子集
	KindRelevance  Kind = "relevance"  // 相关性阶段：按信息价值筛选预测变量
	KindTreatment  Kind = "treatment"  // 编码阶段：拟合处理计划并产出数值矩阵
	KindRedundancy Kind = "redundancy" // 冗余消除阶段：剔除高相关列
)

// Stage 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 dataset -> 输出 dataset”的形态；阶段间的其余产物
//（切分、评分、计划、丢弃列表）通过 RunContext 传递。
type Stage interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RunContext,
		ds *core.Dataset,
	) (*core.Dataset, error)
}
