package relevance

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/prepkit/core"
)

// binning 是从拟合数据导出的冻结分箱定义。
// 数值变量：单调分位数边界，缺失自成一箱；
// 类别变量：每个观测到的类别一箱，缺失一箱，拟合时未见过的类别共用一箱。
// 校验集必须复用拟合集的 binning，不得重拟合。
type binning struct {
	numeric bool
	edges   []float64      // 数值：升序去重后的内部边界
	levels  map[string]int // 类别：类别 → 箱号
	missing int            // 缺失箱号
	unseen  int            // 未见类别箱号（类别变量专用；数值变量不会出现）
	count   int            // 总箱数
}

func fitBinning(col []core.Value, t core.ColumnType, maxBins int) *binning {
	if t == core.Numeric {
		return fitNumericBinning(col, maxBins)
	}
	return fitCategoricalBinning(col)
}

func fitNumericBinning(col []core.Value, maxBins int) *binning {
	observed := make([]float64, 0, len(col))
	for _, v := range col {
		if !v.Missing() {
			observed = append(observed, v.Float())
		}
	}
	sort.Float64s(observed)

	var edges []float64
	if len(observed) > 0 {
		for i := 1; i < maxBins; i++ {
			q := stat.Quantile(float64(i)/float64(maxBins), stat.Empirical, observed, nil)
			if len(edges) == 0 || q > edges[len(edges)-1] {
				edges = append(edges, q)
			}
		}
	}

	regular := len(edges) + 1
	return &binning{
		numeric: true,
		edges:   edges,
		missing: regular,
		unseen:  regular, // 数值变量不会落进 unseen，共用缺失箱号即可
		count:   regular + 1,
	}
}

func fitCategoricalBinning(col []core.Value) *binning {
	levels := make(map[string]int)
	names := make([]string, 0)
	for _, v := range col {
		if v.Missing() {
			continue
		}
		if _, ok := levels[v.Str()]; !ok {
			levels[v.Str()] = 0
			names = append(names, v.Str())
		}
	}
	// 按字典序编号，保证与数据遍历顺序无关。
	sort.Strings(names)
	for i, name := range names {
		levels[name] = i
	}
	return &binning{
		levels:  levels,
		missing: len(names),
		unseen:  len(names) + 1,
		count:   len(names) + 2,
	}
}

// assign 按冻结的分箱定义给一列值逐条指派箱号。
func (b *binning) assign(col []core.Value) []int {
	bins := make([]int, len(col))
	for i, v := range col {
		bins[i] = b.bin(v)
	}
	return bins
}

func (b *binning) bin(v core.Value) int {
	if v.Missing() {
		return b.missing
	}
	if b.numeric {
		// 第一个 >= v 的边界下标即箱号；恰好等于边界的值归左箱。
		return sort.SearchFloat64s(b.edges, v.Float())
	}
	if id, ok := b.levels[v.Str()]; ok {
		return id
	}
	return b.unseen
}
