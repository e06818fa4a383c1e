package filter

import (
	"context"

	"github.com/rushteam/prepkit/core"
	"github.com/rushteam/prepkit/pkg/dsl"
)

// CELFilter 基于 CEL 表达式的行过滤器。
// 表达式返回 true 表示保留记录，false 表示过滤。
// 例如 `row.age != null && row.age > 18.0` 只保留成年样本。
type CELFilter struct {
	eval *dsl.Eval
}

// NewCELFilter 编译表达式并创建过滤器。
// 表达式非法时返回 INVALID_INPUT 错误。
func NewCELFilter(expr string) (*CELFilter, error) {
	eval, err := dsl.NewEval(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "invalid filter expression: "+err.Error())
	}
	return &CELFilter{eval: eval}, nil
}

func (f *CELFilter) Name() string {
	return "filter.cel"
}

func (f *CELFilter) ShouldFilter(ctx context.Context, rctx *core.RunContext, record map[string]core.Value) (bool, error) {
	response := ""
	if rctx != nil {
		response = rctx.Response
	}
	keep, err := f.eval.EvaluateRow(record, response)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
