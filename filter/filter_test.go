package filter

import (
	"context"
	"testing"

	"github.com/rushteam/prepkit/core"
)

func sampleDataset(t *testing.T) *core.Dataset {
	t.Helper()
	schema, err := core.NewSchema(
		core.Column{Name: "age", Type: core.Numeric},
		core.Column{Name: "region", Type: core.Categorical},
		core.Column{Name: "y", Type: core.Numeric},
	)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	ds, err := core.NewDataset(schema, map[string][]core.Value{
		"age":    {core.Num(25), core.Num(40), core.NA(), core.Num(17)},
		"region": {core.Cat("north"), core.Cat("south"), core.Cat("north"), core.NA()},
		"y":      {core.Num(1), core.NA(), core.Num(0), core.Num(1)},
	})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestObservedResponseFilter(t *testing.T) {
	ds := sampleDataset(t)
	rctx := core.NewRunContext("y", 1)

	stage := &Stage{Filters: []RowFilter{&ObservedResponseFilter{}}}
	out, err := stage.Process(context.Background(), rctx, ds)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("kept %d rows, want 3 (one missing response)", out.Len())
	}
	col, _ := out.Column("y")
	for i, v := range col {
		if v.Missing() {
			t.Fatalf("row %d still has missing response", i)
		}
	}
}

func TestCELFilter(t *testing.T) {
	ds := sampleDataset(t)
	rctx := core.NewRunContext("y", 1)

	tests := []struct {
		name string
		expr string
		want int
	}{
		{
			name: "numeric predicate with null guard",
			expr: `row.age != null && row.age >= 18.0`,
			want: 2,
		},
		{
			name: "categorical predicate",
			expr: `row.region == "north"`,
			want: 2,
		},
		{
			name: "keep everything",
			expr: `true`,
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewCELFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewCELFilter: %v", err)
			}
			stage := &Stage{Filters: []RowFilter{f}}
			out, err := stage.Process(context.Background(), rctx, ds)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if out.Len() != tt.want {
				t.Fatalf("kept %d rows, want %d", out.Len(), tt.want)
			}
		})
	}
}

func TestNewCELFilter_InvalidExpression(t *testing.T) {
	if _, err := NewCELFilter(`((`); err == nil {
		t.Fatal("expected compile error")
	}
	// non-boolean result surfaces at evaluation, rows stay
	f, err := NewCELFilter(`row.age`)
	if err != nil {
		t.Fatalf("NewCELFilter: %v", err)
	}
	ds := sampleDataset(t)
	out, err := (&Stage{Filters: []RowFilter{f}}).Process(context.Background(), core.NewRunContext("y", 1), ds)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Len() != ds.Len() {
		t.Fatalf("erroring filter removed rows: %d of %d left", out.Len(), ds.Len())
	}
}

func TestStage_CombinesFilters(t *testing.T) {
	ds := sampleDataset(t)
	rctx := core.NewRunContext("y", 1)

	adult, err := NewCELFilter(`row.age != null && row.age >= 18.0`)
	if err != nil {
		t.Fatalf("NewCELFilter: %v", err)
	}
	stage := &Stage{Filters: []RowFilter{&ObservedResponseFilter{}, adult}}
	out, err := stage.Process(context.Background(), rctx, ds)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// only row 0 survives both: observed response and adult age
	if out.Len() != 1 {
		t.Fatalf("kept %d rows, want 1", out.Len())
	}
}
