// Package partition 实现带分层的确定性数据集切分。
package partition

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rushteam/prepkit/core"
)

const fractionEpsilon = 1e-9

// Split 按给定比例把数据集切成互不相交的 k 个子集，保持 stratifyBy 列
// 各取值在每个子集中的占比与全局一致（舍入误差内）。
//
// 确定性：随机性只来自显式 seed。相同的输入、比例与 seed 必然得到
// 逐条一致的切分；每个子集内的记录保持原数据集中的顺序。
func Split(ds *core.Dataset, fractions []float64, stratifyBy string, seed int64) ([]*core.Dataset, error) {
	if err := validateFractions(fractions); err != nil {
		return nil, err
	}

	strata, err := groupByStratum(ds, stratifyBy)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	k := len(fractions)
	assigned := make([][]int, k)

	// 逐层打乱并按最大余数法分配名额，保证每层在各子集间的占比贴近比例。
	for _, stratum := range strata {
		indices := make([]int, len(stratum.indices))
		copy(indices, stratum.indices)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		counts := apportion(len(indices), fractions)
		pos := 0
		for j := 0; j < k; j++ {
			assigned[j] = append(assigned[j], indices[pos:pos+counts[j]]...)
			pos += counts[j]
		}
	}

	out := make([]*core.Dataset, k)
	for j := 0; j < k; j++ {
		sort.Ints(assigned[j])
		sub, err := ds.Select(assigned[j])
		if err != nil {
			return nil, err
		}
		out[j] = sub
	}
	return out, nil
}

func validateFractions(fractions []float64) error {
	if len(fractions) == 0 {
		return core.NewDomainError(core.ModulePartition, core.ErrorCodeInvalidFractions,
			"partition: at least one fraction required")
	}
	sum := 0.0
	for i, f := range fractions {
		if f <= 0 {
			return core.NewDomainError(core.ModulePartition, core.ErrorCodeInvalidFractions,
				fmt.Sprintf("partition: fraction %d is %v, must be > 0", i, f))
		}
		sum += f
	}
	if math.Abs(sum-1.0) > fractionEpsilon {
		return core.NewDomainError(core.ModulePartition, core.ErrorCodeInvalidFractions,
			fmt.Sprintf("partition: fractions sum to %v, must sum to 1.0", sum))
	}
	return nil
}

type stratum struct {
	key     string
	indices []int
}

// groupByStratum 按分层列取值对记录下标分组，按键排序以保证遍历顺序确定。
func groupByStratum(ds *core.Dataset, stratifyBy string) ([]stratum, error) {
	col, err := ds.Column(stratifyBy)
	if err != nil {
		return nil, core.NewDomainError(core.ModulePartition, core.ErrorCodeStratifyColumnMissing,
			fmt.Sprintf("partition: stratify column %q not found", stratifyBy))
	}

	groups := make(map[string][]int)
	for i, v := range col {
		if v.Missing() {
			return nil, core.NewDomainError(core.ModulePartition, core.ErrorCodeStratifyColumnMissing,
				fmt.Sprintf("partition: stratify column %q has missing value at row %d", stratifyBy, i))
		}
		key := v.Key()
		groups[key] = append(groups[key], i)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	strata := make([]stratum, len(keys))
	for i, key := range keys {
		strata[i] = stratum{key: key, indices: groups[key]}
	}
	return strata, nil
}

// apportion 用最大余数法把 n 条记录按比例分成整数名额，名额总和恰为 n。
// 余数相同时靠前的子集优先，保证分配结果确定。
func apportion(n int, fractions []float64) []int {
	k := len(fractions)
	counts := make([]int, k)
	type rem struct {
		idx  int
		frac float64
	}
	remainders := make([]rem, k)

	total := 0
	for j, f := range fractions {
		exact := f * float64(n)
		counts[j] = int(math.Floor(exact))
		remainders[j] = rem{idx: j, frac: exact - math.Floor(exact)}
		total += counts[j]
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		if remainders[a].frac != remainders[b].frac {
			return remainders[a].frac > remainders[b].frac
		}
		return remainders[a].idx < remainders[b].idx
	})

	for i := 0; total < n; i++ {
		counts[remainders[i%k].idx]++
		total++
	}
	return counts
}
