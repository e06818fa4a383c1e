package partition

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/rushteam/prepkit/core"
)

func buildStratifiedDataset(t *testing.T, n int, positiveRate float64, seed int64) *core.Dataset {
	t.Helper()
	schema, err := core.NewSchema(
		core.Column{Name: "x", Type: core.Numeric},
		core.Column{Name: "y", Type: core.Numeric},
	)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	xs := make([]core.Value, n)
	ys := make([]core.Value, n)
	for i := 0; i < n; i++ {
		xs[i] = core.Num(float64(i))
		if rng.Float64() < positiveRate {
			ys[i] = core.Num(1)
		} else {
			ys[i] = core.Num(0)
		}
	}
	ds, err := core.NewDataset(schema, map[string][]core.Value{"x": xs, "y": ys})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func positiveRate(t *testing.T, ds *core.Dataset) float64 {
	t.Helper()
	col, err := ds.Column("y")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	ones := 0
	for _, v := range col {
		if v.Float() == 1 {
			ones++
		}
	}
	return float64(ones) / float64(len(col))
}

func TestSplit_DisjointAndComplete(t *testing.T) {
	ds := buildStratifiedDataset(t, 1000, 0.3, 1)

	splits, err := Split(ds, []float64{0.5, 0.3, 0.2}, "y", 42)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(splits))
	}

	seen := make(map[float64]int)
	total := 0
	for _, s := range splits {
		total += s.Len()
		col, _ := s.Column("x")
		for _, v := range col {
			seen[v.Float()]++
		}
	}
	if total != 1000 {
		t.Fatalf("splits cover %d records, want 1000", total)
	}
	for x, count := range seen {
		if count != 1 {
			t.Fatalf("record x=%v appears %d times across splits", x, count)
		}
	}
}

func TestSplit_Sizes(t *testing.T) {
	ds := buildStratifiedDataset(t, 1000, 0.3, 1)
	splits, err := Split(ds, []float64{0.5, 0.3, 0.2}, "y", 42)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	wants := []int{500, 300, 200}
	for i, want := range wants {
		// largest-remainder apportionment within each stratum can shift a
		// split size by at most one record per stratum (two strata here)
		if diff := splits[i].Len() - want; diff < -2 || diff > 2 {
			t.Fatalf("split %d has %d records, want %d±2", i, splits[i].Len(), want)
		}
	}
}

func TestSplit_StratificationPreserved(t *testing.T) {
	ds := buildStratifiedDataset(t, 1000, 0.3, 1)
	overall := positiveRate(t, ds)

	splits, err := Split(ds, []float64{0.5, 0.5}, "y", 7)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	for i, s := range splits {
		if rate := positiveRate(t, s); math.Abs(rate-overall) > 0.01 {
			t.Fatalf("split %d positive rate %v deviates from overall %v", i, rate, overall)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	ds := buildStratifiedDataset(t, 500, 0.4, 3)

	a, err := Split(ds, []float64{0.7, 0.3}, "y", 99)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	b, err := Split(ds, []float64{0.7, 0.3}, "y", 99)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	for k := range a {
		ca, _ := a[k].Column("x")
		cb, _ := b[k].Column("x")
		if len(ca) != len(cb) {
			t.Fatalf("split %d sizes differ: %d vs %d", k, len(ca), len(cb))
		}
		for i := range ca {
			if ca[i].Float() != cb[i].Float() {
				t.Fatalf("split %d row %d differs between identical runs", k, i)
			}
		}
	}
}

func TestSplit_PreservesOriginalOrder(t *testing.T) {
	ds := buildStratifiedDataset(t, 200, 0.5, 5)
	splits, err := Split(ds, []float64{0.5, 0.5}, "y", 11)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	for k, s := range splits {
		col, _ := s.Column("x")
		for i := 1; i < len(col); i++ {
			if col[i].Float() <= col[i-1].Float() {
				t.Fatalf("split %d is not in original record order at row %d", k, i)
			}
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	ds := buildStratifiedDataset(t, 100, 0.5, 1)

	tests := []struct {
		name      string
		fractions []float64
		stratify  string
		check     func(error) bool
	}{
		{
			name:      "fractions do not sum to one",
			fractions: []float64{0.5, 0.4},
			stratify:  "y",
			check:     core.IsInvalidFractions,
		},
		{
			name:      "non-positive fraction",
			fractions: []float64{1.2, -0.2},
			stratify:  "y",
			check:     core.IsInvalidFractions,
		},
		{
			name:      "empty fractions",
			fractions: nil,
			stratify:  "y",
			check:     core.IsInvalidFractions,
		},
		{
			name:      "stratify column missing",
			fractions: []float64{0.5, 0.5},
			stratify:  "nope",
			check:     core.IsStratifyColumnMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(ds, tt.fractions, tt.stratify, 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error code: %v", err)
			}
		})
	}
}

func TestSplit_MissingStratifyValue(t *testing.T) {
	schema, _ := core.NewSchema(
		core.Column{Name: "g", Type: core.Categorical},
	)
	ds, err := core.NewDataset(schema, map[string][]core.Value{
		"g": {core.Cat("a"), core.NA()},
	})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	_, err = Split(ds, []float64{0.5, 0.5}, "g", 1)
	if !core.IsStratifyColumnMissing(err) {
		t.Fatalf("expected STRATIFY_COLUMN_MISSING, got %v", err)
	}
}

func TestStage_DefaultNamesBeyondThreeSplits(t *testing.T) {
	ds := buildStratifiedDataset(t, 400, 0.4, 7)
	rctx := core.NewRunContext("y", 7)

	stage := &Stage{Fractions: []float64{0.25, 0.25, 0.25, 0.25}}
	out, err := stage.Process(context.Background(), rctx, ds)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	total := 0
	for _, name := range []string{"split1", "split2", "split3", "split4"} {
		sub, err := rctx.Split(name)
		if err != nil {
			t.Fatalf("missing split %q: %v", name, err)
		}
		total += sub.Len()
	}
	if total != ds.Len() {
		t.Fatalf("splits cover %d records, want %d", total, ds.Len())
	}

	// 未显式指定 Emit 时默认传第二个子集给下游
	second, _ := rctx.Split("split2")
	if out.Len() != second.Len() {
		t.Fatalf("emitted %d records, want split2's %d", out.Len(), second.Len())
	}
}
