package filter

import (
	"context"

	"github.com/rushteam/prepkit/core"
)

// RowFilter 是行过滤器的抽象接口，用于判断一条记录是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type RowFilter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断第 i 行记录是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RunContext, record map[string]core.Value) (bool, error)
}

// ObservedResponseFilter 过滤掉响应列缺失的记录。
// 列名为空时使用 RunContext 中的响应列。
type ObservedResponseFilter struct {
	Column string
}

func (f *ObservedResponseFilter) Name() string {
	return "filter.observed_response"
}

func (f *ObservedResponseFilter) ShouldFilter(ctx context.Context, rctx *core.RunContext, record map[string]core.Value) (bool, error) {
	col := f.Column
	if col == "" && rctx != nil {
		col = rctx.Response
	}
	v, ok := record[col]
	if !ok {
		return false, core.NewDomainError(core.ModulePipeline, core.ErrorCodeUnknownPredictor, "column not found: "+col)
	}
	return v.Missing(), nil
}
