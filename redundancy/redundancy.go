// Package redundancy 在编码后的全数值矩阵上做贪心的冗余列消除。
package redundancy

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/prepkit/core"
)

// Method 指定相关性度量。
type Method string

const (
	// Spearman 秩相关（默认）：对秩变换后的列算 Pearson，对单调非线性关系稳健。
	Spearman Method = "spearman"
	// Pearson 线性相关。
	Pearson Method = "pearson"
)

// FindRedundant 返回应当丢弃的冗余列，按丢弃顺序排列。
//
// 贪心算法：反复找当前绝对相关性最高的列对；低于 cutoff 即停；
// 否则丢弃两者中与其余列平均绝对相关更高的一列（平手时丢字典序靠后的），
// 将其移出候选集后重复。每一步严格缩小候选集，必然终止。
// 终止后存活列两两绝对相关均 < cutoff。
func FindRedundant(ds *core.Dataset, method Method, cutoff float64) ([]string, error) {
	if cutoff <= 0 || cutoff > 1 {
		return nil, core.NewDomainError(core.ModuleRedundancy, core.ErrorCodeCutoffOutOfRange,
			fmt.Sprintf("redundancy: cutoff %v out of (0, 1]", cutoff))
	}
	if method == "" {
		method = Spearman
	}
	if method != Spearman && method != Pearson {
		return nil, core.NewDomainError(core.ModuleRedundancy, core.ErrorCodeInvalidInput,
			fmt.Sprintf("redundancy: unknown correlation method %q", method))
	}

	names := ds.Schema().Columns()
	p := len(names)
	n := ds.Len()
	if p < 2 || n == 0 {
		return nil, nil
	}

	data := mat.NewDense(n, p, nil)
	for j, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		values := make([]float64, n)
		for i, v := range col {
			if v.Missing() || v.Kind() != core.KindNumeric {
				return nil, core.NewDomainError(core.ModuleRedundancy, core.ErrorCodeInvalidInput,
					fmt.Sprintf("redundancy: column %q must be fully observed numeric", name))
			}
			values[i] = v.Float()
		}
		if method == Spearman {
			values = averageRanks(values)
		}
		data.SetCol(j, values)
	}

	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, data, nil)

	return greedyDrop(names, corr, cutoff), nil
}

func greedyDrop(names []string, corr *mat.SymDense, cutoff float64) []string {
	p := len(names)
	alive := make([]bool, p)
	for i := range alive {
		alive[i] = true
	}

	// 零方差列的相关系数是 NaN，视为 0（与任何列都不冗余）。
	at := func(i, j int) float64 {
		c := math.Abs(corr.At(i, j))
		if math.IsNaN(c) {
			return 0
		}
		return c
	}

	var drops []string
	for {
		best, bi, bj := -1.0, -1, -1
		for i := 0; i < p; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < p; j++ {
				if !alive[j] {
					continue
				}
				if c := at(i, j); c > best {
					best, bi, bj = c, i, j
				}
			}
		}
		if bi == -1 || best < cutoff {
			break
		}

		victim := pickVictim(names, alive, at, bi, bj)
		alive[victim] = false
		drops = append(drops, names[victim])
	}
	return drops
}

// pickVictim 在高相关列对中选择被丢弃的一方：
// 与其余存活列平均绝对相关更高者先走；平手时丢字典序靠后的，保证确定性。
func pickVictim(names []string, alive []bool, at func(i, j int) float64, i, j int) int {
	mi := meanAbsCorr(alive, at, i, j)
	mj := meanAbsCorr(alive, at, j, i)
	switch {
	case mi > mj:
		return i
	case mj > mi:
		return j
	case names[i] > names[j]:
		return i
	default:
		return j
	}
}

func meanAbsCorr(alive []bool, at func(i, j int) float64, idx, exclude int) float64 {
	sum, count := 0.0, 0
	for k := range alive {
		if !alive[k] || k == idx || k == exclude {
			continue
		}
		sum += at(idx, k)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// averageRanks 把一列值变换为平均秩（并列值取秩的均值）。
func averageRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// 并列区间 [i, j] 的平均秩（秩从 1 开始）。
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
