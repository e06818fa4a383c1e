// Package builders 注册内置 Stage 的配置构建器。
// 仅需 import 副作用即可启用：import _ "github.com/rushteam/prepkit/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/prepkit/config"
	"github.com/rushteam/prepkit/filter"
	"github.com/rushteam/prepkit/partition"
	"github.com/rushteam/prepkit/pipeline"
	"github.com/rushteam/prepkit/pkg/conv"
	"github.com/rushteam/prepkit/redundancy"
	"github.com/rushteam/prepkit/relevance"
	"github.com/rushteam/prepkit/treatment"
)

func init() {
	config.Register("partition", BuildPartitionStage)
	config.Register("filter.rows", BuildFilterStage)
	config.Register("relevance", BuildRelevanceStage)
	config.Register("treatment", BuildTreatmentStage)
	config.Register("redundancy", BuildRedundancyStage)
}

func BuildPartitionStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	fractions := conv.SliceAnyToFloat64(cfg["fractions"])
	if len(fractions) == 0 {
		return nil, fmt.Errorf("fractions not found or invalid")
	}
	return &partition.Stage{
		Fractions:  fractions,
		StratifyBy: conv.ConfigGet(cfg, "stratify_by", ""),
		Names:      conv.SliceAnyToString(cfg["names"]),
		Emit:       conv.ConfigGet(cfg, "emit", ""),
	}, nil
}

func BuildFilterStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	filters := make([]filter.RowFilter, 0, 2)
	if conv.ConfigGet(cfg, "observed_response", false) {
		filters = append(filters, &filter.ObservedResponseFilter{
			Column: conv.ConfigGet(cfg, "response_column", ""),
		})
	}
	for _, expr := range conv.SliceAnyToString(cfg["exprs"]) {
		f, err := filter.NewCELFilter(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("filter.rows: no filters configured")
	}
	return &filter.Stage{Filters: filters}, nil
}

func BuildRelevanceStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &relevance.Stage{
		Threshold:      conv.ConfigGetFloat64(cfg, "threshold", 0.02),
		FitSplit:       conv.ConfigGet(cfg, "fit_split", ""),
		MaxBins:        int(conv.ConfigGetInt64(cfg, "max_bins", 0)),
		MaxCardinality: int(conv.ConfigGetInt64(cfg, "max_cardinality", 0)),
		Concurrency:    int(conv.ConfigGetInt64(cfg, "concurrency", 0)),
	}, nil
}

func BuildTreatmentStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	opts := treatment.DefaultOptions()
	opts.CollarProbability = conv.ConfigGetFloat64(cfg, "collar_probability", opts.CollarProbability)
	opts.RareLevelMinFreq = conv.ConfigGetFloat64(cfg, "rare_level_min_freq", opts.RareLevelMinFreq)
	opts.Name = conv.ConfigGet(cfg, "name", "")
	opts.Version = conv.ConfigGet(cfg, "version", "")
	return &treatment.Stage{
		Options:    opts,
		FitSplit:   conv.ConfigGet(cfg, "fit_split", ""),
		Predictors: conv.SliceAnyToString(cfg["predictors"]),
	}, nil
}

func BuildRedundancyStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	cutoff := conv.ConfigGetFloat64(cfg, "cutoff", 0)
	if cutoff == 0 {
		return nil, fmt.Errorf("cutoff not found or invalid")
	}
	return &redundancy.Stage{
		Method: redundancy.Method(conv.ConfigGet(cfg, "method", "")),
		Cutoff: cutoff,
	}, nil
}
