// Package relevance 按信息价值（Information Value）对预测变量做单变量筛选。
//
// 每个变量在拟合集上分箱并计算 IV；再用同一套分箱在校验集上重算一遍，
// 两者的偏差作为交叉验证惩罚从原始分中扣除，以惩罚过拟合的变量。
package relevance

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/prepkit/core"
)

const (
	// DefaultMaxBins 数值变量的默认分箱数（分位数等频分箱）。
	DefaultMaxBins = 10
	// DefaultMaxCardinality 类别变量的默认基数上限。超限的变量接近唯一标识，
	// 高基数编码会泄漏/过拟合，跳过不评分，只做报告。
	DefaultMaxCardinality = 1000

	// logEpsilon 只进入对数内部，避免空箱的 log(0)；
	// 当某箱两类占比完全相等时乘数 (g-b) 为 0，IV 贡献严格为 0。
	logEpsilon = 1e-12
)

// Options 控制评分行为。
type Options struct {
	MaxBins        int
	MaxCardinality int
	Concurrency    int // 并行评分的 goroutine 上限（0 表示不限制）
}

// Option 修改 Options。
type Option func(*Options)

// WithMaxBins 设置数值变量的分箱数。
func WithMaxBins(n int) Option {
	return func(o *Options) { o.MaxBins = n }
}

// WithMaxCardinality 设置类别变量的基数上限。
func WithMaxCardinality(n int) Option {
	return func(o *Options) { o.MaxCardinality = n }
}

// WithConcurrency 设置并行度。结果与执行顺序无关，并行只影响吞吐。
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// ScoreSet 是一次评分调用的完整输出，计算后不可变。
type ScoreSet struct {
	// Scores 是 预测变量 → 评分 映射。
	Scores map[string]core.RelevanceScore
	// Skipped 是因基数超限被跳过的变量（字典序）。
	Skipped []string
}

// ScorePredictors 为 fit 数据集 Schema 中的每个预测变量计算相关性评分。
// eval 数据集复用 fit 的分箱定义，两套 IV 的偏差即交叉验证惩罚。
func ScorePredictors(fit, eval *core.Dataset, response string, opts ...Option) (*ScoreSet, error) {
	o := Options{MaxBins: DefaultMaxBins, MaxCardinality: DefaultMaxCardinality}
	for _, opt := range opts {
		opt(&o)
	}

	if fit.Len() == 0 {
		return nil, core.NewDomainError(core.ModuleRelevance, core.ErrorCodeEmptyFitData,
			"relevance: fit data has zero records")
	}
	if eval.Len() == 0 {
		return nil, core.NewDomainError(core.ModuleRelevance, core.ErrorCodeEmptyEvalData,
			"relevance: eval data has zero records")
	}

	fitLabels, err := fit.BinaryResponse(response)
	if err != nil {
		return nil, err
	}
	evalLabels, err := eval.BinaryResponse(response)
	if err != nil {
		return nil, err
	}

	predictors := fit.Schema().Predictors(response)

	type colResult struct {
		score   core.RelevanceScore
		skipped bool
	}
	results := make([]colResult, len(predictors))

	var g errgroup.Group
	if o.Concurrency > 0 {
		g.SetLimit(o.Concurrency)
	}
	for i, name := range predictors {
		i, name := i, name
		g.Go(func() error {
			fitCol, err := fit.Column(name)
			if err != nil {
				return err
			}
			colType, _ := fit.Schema().Type(name)

			if colType == core.Categorical && distinctLevels(fitCol) > o.MaxCardinality {
				results[i] = colResult{skipped: true}
				return nil
			}

			evalCol, err := eval.Column(name)
			if err != nil {
				return core.NewDomainError(core.ModuleRelevance, core.ErrorCodeUnknownPredictor,
					fmt.Sprintf("relevance: eval data lacks predictor %q", name))
			}
			if evalType, _ := eval.Schema().Type(name); evalType != colType {
				return core.NewDomainError(core.ModuleRelevance, core.ErrorCodePlanTypeMismatch,
					fmt.Sprintf("relevance: predictor %q is %s in fit data but %s in eval data",
						name, colType, evalType))
			}

			b := fitBinning(fitCol, colType, o.MaxBins)
			raw := informationValue(b.assign(fitCol), fitLabels, b.count)
			crossed := informationValue(b.assign(evalCol), evalLabels, b.count)
			results[i] = colResult{score: core.NewRelevanceScore(raw, math.Abs(raw-crossed))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &ScoreSet{Scores: make(map[string]core.RelevanceScore, len(predictors))}
	for i, name := range predictors {
		if results[i].skipped {
			set.Skipped = append(set.Skipped, name)
			continue
		}
		set.Scores[name] = results[i].score
	}
	sort.Strings(set.Skipped)
	return set, nil
}

// Select 返回调整分严格大于阈值的预测变量（字典序）。
// 策略建议：阈值取低值（如 0.02），避免过早丢掉对自带特征选择的算法仍有用的变量。
func Select(set *ScoreSet, threshold float64) []string {
	selected := make([]string, 0, len(set.Scores))
	for name, score := range set.Scores {
		if score.Adjusted > threshold {
			selected = append(selected, name)
		}
	}
	sort.Strings(selected)
	return selected
}

func distinctLevels(col []core.Value) int {
	seen := make(map[string]struct{})
	for _, v := range col {
		if v.Missing() {
			continue
		}
		seen[v.Str()] = struct{}{}
	}
	return len(seen)
}

// informationValue 计算按箱聚合的 IV 统计量：
// Σ (share1 - share0) · ln(share1 / share0)。
// 变量的箱内类分布与全局完全一致时恰为 0，偏离越大越高，恒 ≥ 0。
func informationValue(bins []int, labels []int, nbins int) float64 {
	ones := make([]float64, nbins)
	zeros := make([]float64, nbins)
	var totalOnes, totalZeros float64
	for i, b := range bins {
		if labels[i] == 1 {
			ones[b]++
			totalOnes++
		} else {
			zeros[b]++
			totalZeros++
		}
	}
	// 只有一类时箱间没有可测的差异。
	if totalOnes == 0 || totalZeros == 0 {
		return 0
	}

	iv := 0.0
	for b := 0; b < nbins; b++ {
		g := ones[b] / totalOnes
		d := zeros[b] / totalZeros
		if g == d {
			continue
		}
		iv += (g - d) * math.Log((g+logEpsilon)/(d+logEpsilon))
	}
	return iv
}
