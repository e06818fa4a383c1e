// Package treatment 实现编码/处理计划（treatment plan）的拟合与应用。
//
// 计划是对拟合统计量（均值、收口边界、类别频率/效应表、稀有类别归并）的
// 不可变封装：在拟合集上拟合一次，之后可反复应用到同 Schema 的任意数据集，
// 应用过程绝不从目标数据集重算任何统计量。
package treatment

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/prepkit/core"
)

// Options 控制计划拟合。零值表示：不收口、不归并稀有类别。
// 常规用法从 DefaultOptions 出发按需覆盖。
type Options struct {
	// CollarProbability 是异常值收口分位点 p：数值列被截断到
	// [Q(p), Q(1-p)]。0 表示不收口；0.5 表示全部收到中位数（退化但合法）。
	CollarProbability float64
	// RareLevelMinFreq 是类别保留的最低频率，低于它的类别归并进 other 桶。
	// 缺失类别不受此限制，始终单独保留。
	RareLevelMinFreq float64
	// Name / Version 写入计划元数据，持久化时用作存储键。
	Name    string
	Version string
}

// DefaultOptions 返回常规默认值：1% 收口、2% 稀有类别下限。
func DefaultOptions() Options {
	return Options{CollarProbability: 0.01, RareLevelMinFreq: 0.02}
}

// NumericTreatment 是一个数值列的冻结处理规则。
type NumericTreatment struct {
	Mean       float64 `json:"mean"`            // 缺失填充值（拟合集非缺失均值）
	Lower      float64 `json:"lower"`           // 收口下界
	Upper      float64 `json:"upper"`           // 收口上界
	Collar     bool    `json:"collar"`          // 是否启用收口
	HasMissing bool    `json:"has_missing"`     // 拟合时是否观测到缺失（决定是否派生 _isbad 列）
}

// LevelCode 是一个类别（或桶）的冻结编码值。
type LevelCode struct {
	Prevalence float64 `json:"prevalence"` // 拟合集频率
	Impact     float64 `json:"impact"`     // 单变量逻辑回归系数（对数几率差）
}

// CategoricalTreatment 是一个类别列的冻结处理规则。
type CategoricalTreatment struct {
	Levels  map[string]LevelCode `json:"levels"`  // 保留类别 → 编码值
	Order   []string             `json:"order"`   // 保留类别的字典序（派生列顺序）
	Missing LevelCode            `json:"missing"` // 缺失类别（始终保留）
	Other   LevelCode            `json:"other"`   // 稀有/未见类别桶
}

// Plan 是不可变的处理计划。Metadata 携带名称与版本，供持久化使用。
type Plan struct {
	meta        Metadata
	response    string
	opts        Options
	order       []string
	types       map[string]core.ColumnType
	numeric     map[string]NumericTreatment
	categorical map[string]CategoricalTreatment
	outSchema   *core.Schema
}

// Metadata 是计划的持久化元数据。
type Metadata struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
}

// Fit 在拟合集上为给定预测变量拟合处理计划。
// 所有校验先于计算：拟合集为空、响应非 0/1、预测变量不存在都会立即失败。
func Fit(fit *core.Dataset, predictors []string, response string, opts Options) (*Plan, error) {
	if fit.Len() == 0 {
		return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodeEmptyFitData,
			"treatment: fit data has zero records")
	}
	if opts.CollarProbability < 0 || opts.CollarProbability > 0.5 {
		return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodeInvalidInput,
			fmt.Sprintf("treatment: collar probability %v out of [0, 0.5]", opts.CollarProbability))
	}
	if opts.RareLevelMinFreq < 0 || opts.RareLevelMinFreq >= 1 {
		return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodeInvalidInput,
			fmt.Sprintf("treatment: rare level min frequency %v out of [0, 1)", opts.RareLevelMinFreq))
	}
	labels, err := fit.BinaryResponse(response)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		meta: Metadata{
			Name:      opts.Name,
			Version:   opts.Version,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Response:  response,
		},
		response:    response,
		opts:        opts,
		order:       append([]string(nil), predictors...),
		types:       make(map[string]core.ColumnType, len(predictors)),
		numeric:     make(map[string]NumericTreatment),
		categorical: make(map[string]CategoricalTreatment),
	}

	for _, name := range predictors {
		colType, ok := fit.Schema().Type(name)
		if !ok {
			return nil, core.NewDomainError(core.ModuleTreatment, core.ErrorCodeUnknownPredictor,
				fmt.Sprintf("treatment: predictor %q not in fit data", name))
		}
		col, err := fit.Column(name)
		if err != nil {
			return nil, err
		}
		p.types[name] = colType

		switch colType {
		case core.Numeric:
			p.numeric[name] = fitNumeric(col, opts.CollarProbability)
		case core.Categorical:
			p.categorical[name] = fitCategorical(col, labels, opts.RareLevelMinFreq)
		}
	}

	schema, err := p.buildOutputSchema()
	if err != nil {
		return nil, err
	}
	p.outSchema = schema
	return p, nil
}

func fitNumeric(col []core.Value, collar float64) NumericTreatment {
	observed := make([]float64, 0, len(col))
	hasMissing := false
	for _, v := range col {
		if v.Missing() {
			hasMissing = true
			continue
		}
		observed = append(observed, v.Float())
	}

	t := NumericTreatment{HasMissing: hasMissing}
	if len(observed) == 0 {
		return t
	}
	t.Mean = stat.Mean(observed, nil)

	if collar > 0 {
		sort.Float64s(observed)
		t.Lower = stat.Quantile(collar, stat.Empirical, observed, nil)
		t.Upper = stat.Quantile(1-collar, stat.Empirical, observed, nil)
		t.Collar = true
	}
	return t
}

func fitCategorical(col []core.Value, labels []int, rareMinFreq float64) CategoricalTreatment {
	n := len(col)
	counts := make(map[string]int)
	ones := make(map[string]int)
	missingCount, missingOnes := 0, 0
	totalOnes := 0

	for i, v := range col {
		y := labels[i]
		totalOnes += y
		if v.Missing() {
			missingCount++
			missingOnes += y
			continue
		}
		counts[v.Str()]++
		ones[v.Str()] += y
	}

	t := CategoricalTreatment{Levels: make(map[string]LevelCode)}
	otherCount, otherOnes := 0, 0
	for level, count := range counts {
		if float64(count)/float64(n) < rareMinFreq {
			otherCount += count
			otherOnes += ones[level]
			continue
		}
		t.Levels[level] = LevelCode{
			Prevalence: float64(count) / float64(n),
			Impact:     impactCode(ones[level], count, totalOnes, n),
		}
		t.Order = append(t.Order, level)
	}
	sort.Strings(t.Order)

	t.Missing = LevelCode{
		Prevalence: float64(missingCount) / float64(n),
		Impact:     impactCode(missingOnes, missingCount, totalOnes, n),
	}
	t.Other = LevelCode{
		Prevalence: float64(otherCount) / float64(n),
		Impact:     impactCode(otherOnes, otherCount, totalOnes, n),
	}
	return t
}

// impactCode 是响应对“属于该类别”指示变量做单变量逻辑回归的拟合系数。
// 对单个 0/1 指示变量，极大似然解有闭式形式：类内对数几率减类外对数几率；
// 半计数平滑避免 0/1 比率发散。类别无观测时没有证据，系数取 0。
func impactCode(onesIn, countIn, totalOnes, n int) float64 {
	if countIn == 0 {
		return 0
	}
	onesOut := totalOnes - onesIn
	countOut := n - countIn
	return logOdds(float64(onesIn), float64(countIn)) - logOdds(float64(onesOut), float64(countOut))
}

func logOdds(ones, total float64) float64 {
	p := (ones + 0.5) / (total + 1)
	return math.Log(p / (1 - p))
}

// Predictors 返回计划覆盖的原始预测变量（拟合时顺序）。
func (p *Plan) Predictors() []string {
	return append([]string(nil), p.order...)
}

// OutputColumns 返回应用计划后的全部派生列名，顺序与输出 Schema 一致。
func (p *Plan) OutputColumns() []string {
	return p.outSchema.Columns()
}

// InputSchema 返回计划期望的输入 Schema（仅预测变量，拟合时顺序）。
// 打分侧可据此把外部数据（JSON、消息流）解析成合法的数据集。
func (p *Plan) InputSchema() (*core.Schema, error) {
	columns := make([]core.Column, 0, len(p.order))
	for _, name := range p.order {
		columns = append(columns, core.Column{Name: name, Type: p.types[name]})
	}
	return core.NewSchema(columns...)
}

// Metadata 返回计划元数据。
func (p *Plan) Metadata() Metadata { return p.meta }

// Response 返回拟合时使用的响应列名。
func (p *Plan) Response() string { return p.response }

// 派生列命名规则。类别列跟随 vtreat 惯例：_lev_ 指示列、_catP 频率编码、_catB 效应编码。
func badColumn(name string) string { return name + "_isbad" }

// levColumn 为保留类别生成指示列名。NA 和 other 是无条件产出的指示列标签，
// 与之同名的类别（以及本身带 x_ 前缀的类别）加 x_ 前缀转义，
// 保证任意合法类别名都映射到互不重复的列名。
func levColumn(name, level string) string {
	if level == "NA" || level == "other" || strings.HasPrefix(level, "x_") {
		level = "x_" + level
	}
	return name + "_lev_" + level
}
func naColumn(name string) string         { return name + "_lev_NA" }
func otherColumn(name string) string      { return name + "_lev_other" }
func prevColumn(name string) string       { return name + "_catP" }
func impactColumn(name string) string     { return name + "_catB" }

// buildOutputSchema 由冻结的处理规则导出输出 Schema。
// 缺失与 other 指示列无条件产出，保证输出 Schema 只取决于计划本身。
func (p *Plan) buildOutputSchema() (*core.Schema, error) {
	var columns []core.Column
	add := func(name string) {
		columns = append(columns, core.Column{Name: name, Type: core.Numeric})
	}
	for _, name := range p.order {
		switch p.types[name] {
		case core.Numeric:
			add(name)
			if p.numeric[name].HasMissing {
				add(badColumn(name))
			}
		case core.Categorical:
			t := p.categorical[name]
			for _, level := range t.Order {
				add(levColumn(name, level))
			}
			add(naColumn(name))
			add(otherColumn(name))
			add(prevColumn(name))
			add(impactColumn(name))
		}
	}
	return core.NewSchema(columns...)
}

var _ core.Plan = (*Plan)(nil)
