// Package monitoring summarizes analysis run history.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/store"
)

// statsLimit bounds how many runs one snapshot reads.
const statsLimit = 10000

// Snapshot holds aggregate statistics over runs created within a window.
type Snapshot struct {
	Total      int     `json:"total"`
	Complete   int     `json:"complete"`
	Failed     int     `json:"failed"`
	InProgress int     `json:"in_progress"`
	FailRate   float64 `json:"fail_rate"`

	// Averages over completed runs.
	AvgDurationSecs  float64 `json:"avg_duration_secs"`
	AvgRoutes        float64 `json:"avg_routes"`
	AvgProfitablePct float64 `json:"avg_profitable_pct"`
	AvgAnnualProfit  float64 `json:"avg_annual_profit"`

	Since       time.Time `json:"since,omitempty"`
	CollectedAt time.Time `json:"collected_at"`
}

// RunLister is the part of store.Store the collector needs.
type RunLister interface {
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
}

// Collector gathers run statistics from the store.
type Collector struct {
	runs RunLister
	now  func() time.Time
}

// NewCollector creates a new run statistics collector.
func NewCollector(runs RunLister) *Collector {
	return &Collector{runs: runs, now: time.Now}
}

// Collect aggregates runs created within the given window. A zero window
// covers all history.
func (c *Collector) Collect(ctx context.Context, window time.Duration) (*Snapshot, error) {
	snap := &Snapshot{CollectedAt: c.now().UTC()}

	filter := store.RunFilter{Limit: statsLimit}
	if window > 0 {
		snap.Since = snap.CollectedAt.Add(-window)
		filter.CreatedAfter = snap.Since
	}

	runs, err := c.runs.ListRuns(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	Aggregate(snap, runs)
	return snap, nil
}

// Aggregate folds runs into snap.
func Aggregate(snap *Snapshot, runs []model.Run) {
	snap.Total = len(runs)

	var totalDur time.Duration
	var routes, profitablePct, profit float64
	var summarized int

	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			snap.Complete++
			totalDur += r.UpdatedAt.Sub(r.CreatedAt)
			if r.Result != nil {
				summarized++
				stats := r.Result.Stats
				routes += float64(stats.TotalRoutes)
				profit += stats.TotalAnnualProfit
				if stats.TotalRoutes > 0 {
					profitablePct += float64(stats.ProfitableRoutes) / float64(stats.TotalRoutes) * 100
				}
			}
		case model.RunStatusFailed:
			snap.Failed++
		default:
			snap.InProgress++
		}
	}

	if finished := snap.Complete + snap.Failed; finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}
	if snap.Complete > 0 {
		snap.AvgDurationSecs = totalDur.Seconds() / float64(snap.Complete)
	}
	if summarized > 0 {
		n := float64(summarized)
		snap.AvgRoutes = routes / n
		snap.AvgProfitablePct = profitablePct / n
		snap.AvgAnnualProfit = profit / n
	}
}
