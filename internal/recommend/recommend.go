// Package recommend assigns every route to an expand, optimize or
// discontinue action.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/model"
)

// Thresholds are the expand cut-offs, in percent.
type Thresholds struct {
	ExpandMinMargin float64
	ExpandMinROI    float64
}

// DefaultThresholds returns the default expand thresholds: margin above 15%
// and ROI above 20%.
func DefaultThresholds() Thresholds {
	return Thresholds{ExpandMinMargin: 15, ExpandMinROI: 20}
}

// FromConfig converts the recommend config section into Thresholds.
func FromConfig(c config.RecommendConfig) Thresholds {
	return Thresholds{ExpandMinMargin: c.ExpandMinMargin, ExpandMinROI: c.ExpandMinROI}
}

// Validate checks that the thresholds are usable.
func (th Thresholds) Validate() error {
	var errs []string
	if th.ExpandMinMargin < 0 {
		errs = append(errs, "expand_min_margin must be >= 0")
	}
	if th.ExpandMinROI < 0 {
		errs = append(errs, "expand_min_roi must be >= 0")
	}
	if len(errs) > 0 {
		return eris.Errorf("recommend: thresholds validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Classify returns the action for a single route. The three predicates are
// exhaustive and mutually exclusive.
func Classify(rec model.ProfitabilityRecord, th Thresholds) model.Action {
	switch {
	case rec.Profit <= 0:
		return model.ActionDiscontinue
	case rec.ProfitMargin > th.ExpandMinMargin && rec.ROI > th.ExpandMinROI:
		return model.ActionExpand
	default:
		return model.ActionOptimize
	}
}

// Generate partitions the profitability table into recommendation buckets.
func Generate(table *model.ProfitabilityTable, th Thresholds) (*model.RecommendationSet, error) {
	if table == nil {
		return nil, eris.Wrap(model.ErrNotInitialized, "recommend: profitability not calculated")
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}

	buckets := map[model.Action][]model.ProfitabilityRecord{}
	for _, r := range table.Records {
		a := Classify(r, th)
		buckets[a] = append(buckets[a], r)
	}

	expand := buckets[model.ActionExpand]
	sortBy(expand, func(r model.ProfitabilityRecord) float64 { return -r.ROI })
	optimize := buckets[model.ActionOptimize]
	sortBy(optimize, func(r model.ProfitabilityRecord) float64 { return -r.ProfitMargin })
	discontinue := buckets[model.ActionDiscontinue]
	sortBy(discontinue, func(r model.ProfitabilityRecord) float64 { return r.Profit })

	return &model.RecommendationSet{
		ExpandRoutes: model.Bucket{
			Routes: routeIDs(expand),
			Rationale: fmt.Sprintf("Profit margin above %.0f%% and ROI above %.0f%%; candidates for added capacity or frequency.",
				th.ExpandMinMargin, th.ExpandMinROI),
		},
		OptimizeRoutes: model.Bucket{
			Routes:    routeIDs(optimize),
			Rationale: "Profitable but below expansion thresholds; review pricing, aircraft assignment and cost structure.",
		},
		ConsiderDiscontinuing: model.Bucket{
			Routes:    routeIDs(discontinue),
			Rationale: "Not profitable on an annual basis; evaluate network value before reducing or exiting.",
		},
	}, nil
}

// sortBy orders records ascending by key, then by route id.
func sortBy(recs []model.ProfitabilityRecord, key func(model.ProfitabilityRecord) float64) {
	sort.Slice(recs, func(i, j int) bool {
		ki, kj := key(recs[i]), key(recs[j])
		if ki != kj {
			return ki < kj
		}
		return recs[i].RouteID < recs[j].RouteID
	})
}

func routeIDs(recs []model.ProfitabilityRecord) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.RouteID
	}
	return ids
}
