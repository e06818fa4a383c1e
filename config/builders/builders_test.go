package builders

import (
	"testing"

	"github.com/rushteam/prepkit/config"
	"github.com/rushteam/prepkit/partition"
	"github.com/rushteam/prepkit/pipeline"
	"github.com/rushteam/prepkit/redundancy"
	"github.com/rushteam/prepkit/relevance"
	"github.com/rushteam/prepkit/treatment"
)

func TestRegisteredTypes(t *testing.T) {
	supported := config.SupportedTypes()
	want := []string{"filter.rows", "partition", "redundancy", "relevance", "treatment"}
	if len(supported) != len(want) {
		t.Fatalf("SupportedTypes = %v, want %v", supported, want)
	}
	for i := range want {
		if supported[i] != want[i] {
			t.Fatalf("SupportedTypes = %v, want %v", supported, want)
		}
	}
}

func TestBuildPartitionStage(t *testing.T) {
	stage, err := BuildPartitionStage(map[string]any{
		"fractions":   []any{0.5, 0.3, 0.2},
		"stratify_by": "y",
		"emit":        "train",
	})
	if err != nil {
		t.Fatalf("BuildPartitionStage: %v", err)
	}
	ps := stage.(*partition.Stage)
	if len(ps.Fractions) != 3 || ps.Fractions[0] != 0.5 {
		t.Fatalf("fractions = %v", ps.Fractions)
	}
	if ps.StratifyBy != "y" || ps.Emit != "train" {
		t.Fatalf("stage = %+v", ps)
	}

	if _, err := BuildPartitionStage(map[string]any{}); err == nil {
		t.Fatal("expected error for missing fractions")
	}
}

func TestBuildFilterStage(t *testing.T) {
	stage, err := BuildFilterStage(map[string]any{
		"observed_response": true,
		"exprs":             []any{`row.age != null`},
	})
	if err != nil {
		t.Fatalf("BuildFilterStage: %v", err)
	}
	if stage.Kind() != pipeline.KindFilter {
		t.Fatalf("kind = %v, want filter", stage.Kind())
	}

	if _, err := BuildFilterStage(map[string]any{}); err == nil {
		t.Fatal("expected error for empty filter config")
	}
	if _, err := BuildFilterStage(map[string]any{"exprs": []any{`((`}}); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestBuildRelevanceStage(t *testing.T) {
	stage, err := BuildRelevanceStage(map[string]any{
		"threshold": 0.05,
		"max_bins":  20,
	})
	if err != nil {
		t.Fatalf("BuildRelevanceStage: %v", err)
	}
	rs := stage.(*relevance.Stage)
	if rs.Threshold != 0.05 || rs.MaxBins != 20 {
		t.Fatalf("stage = %+v", rs)
	}

	// default threshold applies when omitted
	stage, err = BuildRelevanceStage(map[string]any{})
	if err != nil {
		t.Fatalf("BuildRelevanceStage: %v", err)
	}
	if stage.(*relevance.Stage).Threshold != 0.02 {
		t.Fatalf("default threshold = %v, want 0.02", stage.(*relevance.Stage).Threshold)
	}
}

func TestBuildTreatmentStage(t *testing.T) {
	stage, err := BuildTreatmentStage(map[string]any{
		"collar_probability": 0.05,
		"name":               "plan-a",
		"predictors":         []any{"x1", "x2"},
	})
	if err != nil {
		t.Fatalf("BuildTreatmentStage: %v", err)
	}
	ts := stage.(*treatment.Stage)
	if ts.Options.CollarProbability != 0.05 || ts.Options.Name != "plan-a" {
		t.Fatalf("options = %+v", ts.Options)
	}
	// rare level floor keeps its default when omitted
	if ts.Options.RareLevelMinFreq != treatment.DefaultOptions().RareLevelMinFreq {
		t.Fatalf("rare floor = %v, want default", ts.Options.RareLevelMinFreq)
	}
	if len(ts.Predictors) != 2 {
		t.Fatalf("predictors = %v", ts.Predictors)
	}
}

func TestBuildRedundancyStage(t *testing.T) {
	stage, err := BuildRedundancyStage(map[string]any{
		"method": "pearson",
		"cutoff": 0.9,
	})
	if err != nil {
		t.Fatalf("BuildRedundancyStage: %v", err)
	}
	rs := stage.(*redundancy.Stage)
	if rs.Method != redundancy.Pearson || rs.Cutoff != 0.9 {
		t.Fatalf("stage = %+v", rs)
	}

	if _, err := BuildRedundancyStage(map[string]any{}); err == nil {
		t.Fatal("expected error for missing cutoff")
	}
}
