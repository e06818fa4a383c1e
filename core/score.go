package core

// RelevanceScore 是单个预测变量的相关性评分。
// 一次 Relevance Filter 调用为每个变量计算一次，之后不可变。
type RelevanceScore struct {
	// Raw 是在拟合集上计算的原始关联统计量（信息价值），恒 ≥ 0。
	Raw float64
	// Penalty 是交叉验证惩罚：拟合集与校验集统计量的偏差幅度，恒 ≥ 0。
	Penalty float64
	// Adjusted = max(0, Raw - Penalty)。按惯例始终报告为非负。
	Adjusted float64
}

// NewRelevanceScore 由原始分与惩罚构造评分，Adjusted 取 0 下限。
func NewRelevanceScore(raw, penalty float64) RelevanceScore {
	adjusted := raw - penalty
	if adjusted < 0 {
		adjusted = 0
	}
	return RelevanceScore{Raw: raw, Penalty: penalty, Adjusted: adjusted}
}
