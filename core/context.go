package core

// RunContext 携带一次预处理运行的全部上下文：随机种子、响应列，
// 以及各阶段沉淀下来的产物（切分、评分、计划、被丢弃的列）。
//
// 管线中每个 Stage 读取它需要的上游产物，写入自己的产物；
// 产物一经写入即视为不可变。
type RunContext struct {
	// Seed 是本次运行的随机种子。随机性只来自这里，不依赖全局状态，
	// 相同输入与种子必须得到逐条一致的结果。
	Seed int64

	// Response 是响应列名（0/1）。
	Response string

	// Params 是调用方附加的自定义参数（行过滤表达式等）。
	Params map[string]any

	// Splits 是切分阶段产出的命名子集（如 fit / train / test）。
	Splits map[string]*Dataset

	// Scores 是相关性过滤阶段对每个预测变量的评分。
	Scores map[string]RelevanceScore

	// Skipped 是因类别基数超限而被跳过、未评分的预测变量。
	Skipped []string

	// Selected 是通过相关性阈值筛选保留下来的预测变量。
	Selected []string

	// Plan 是编码阶段拟合出的处理计划。
	Plan Plan

	// Dropped 是冗余消除阶段按丢弃顺序记录的列名。
	Dropped []string
}

// NewRunContext 创建运行上下文。
func NewRunContext(response string, seed int64) *RunContext {
	return &RunContext{
		Seed:     seed,
		Response: response,
		Params:   make(map[string]any),
		Splits:   make(map[string]*Dataset),
	}
}

// Split 按名称取一个切分；不存在时返回 NOT_FOUND。
func (rc *RunContext) Split(name string) (*Dataset, error) {
	ds, ok := rc.Splits[name]
	if !ok {
		return nil, NewDomainError(ModulePipeline, ErrorCodeNotFound, "run context: split "+name+" not found")
	}
	return ds, nil
}
