package core

// Plan 是处理计划（treatment plan）的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由 treatment 包实现
//   - 计划是对拟合统计量的不可变封装：一次拟合，多次应用，绝不重拟合
//   - 应用只依赖冻结的统计量，对相同输入产生相同输出
type Plan interface {
	// Predictors 返回计划覆盖的原始预测变量名（拟合时的顺序）。
	Predictors() []string

	// OutputColumns 返回应用计划后产出的全部派生列名。
	// 输出 Schema 只由计划决定，与被应用的数据集无关。
	OutputColumns() []string

	// Apply 将冻结的计划应用到一个数据集，返回全数值的编码数据集。
	// 数据集缺少计划所需的列返回 UNKNOWN_PREDICTOR；
	// 列类型与拟合时不一致返回 PLAN_TYPE_MISMATCH。
	Apply(ds *Dataset) (*Dataset, error)
}
