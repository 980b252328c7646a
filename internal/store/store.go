// Package store persists analysis runs, their phases and per-route results.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/route-profitability/internal/model"
)

// ErrNotFound is returned when a run or phase does not exist.
var ErrNotFound = eris.New("not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunSummary) error
	FailRun(ctx context.Context, runID string, msg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Phases
	CreatePhase(ctx context.Context, runID string, name string) (*model.RunPhase, error)
	CompletePhase(ctx context.Context, phaseID string, result *model.PhaseResult) error
	ListPhases(ctx context.Context, runID string) ([]model.RunPhase, error)

	// Route results
	SaveRouteResults(ctx context.Context, runID string, records []model.ProfitabilityRecord) (int64, error)
	ListRouteResults(ctx context.Context, runID string) ([]model.ProfitabilityRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

// routeResultColumns is the column order shared by both backends.
var routeResultColumns = []string{
	"run_id", "route_id", "origin", "destination", "route_type", "aircraft_type",
	"distance_miles", "daily_flights", "revenue", "passengers", "load_factor",
	"cost", "profit", "profit_margin", "roi", "asm", "rasm", "casm",
}

func routeResultRow(runID string, r model.ProfitabilityRecord) []any {
	return []any{
		runID, r.RouteID, r.Origin, r.Destination, r.RouteType, string(r.AircraftType),
		r.DistanceMiles, r.DailyFlights, r.Revenue, r.Passengers, r.LoadFactor,
		r.Cost, r.Profit, r.ProfitMargin, r.ROI, r.ASM, r.RASM, r.CASM,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRouteResult(row scannable) (model.ProfitabilityRecord, error) {
	var r model.ProfitabilityRecord
	var aircraft string
	err := row.Scan(
		&r.RouteID, &r.Origin, &r.Destination, &r.RouteType, &aircraft,
		&r.DistanceMiles, &r.DailyFlights, &r.Revenue, &r.Passengers, &r.LoadFactor,
		&r.Cost, &r.Profit, &r.ProfitMargin, &r.ROI, &r.ASM, &r.RASM, &r.CASM,
	)
	r.AircraftType = model.AircraftType(aircraft)
	return r, err
}
