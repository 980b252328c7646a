package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/monitoring"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Params:    model.RunParams{Seed: 42, RouteCount: 50},
			Status:    model.RunStatusComplete,
			Result:    &model.RunSummary{Stats: model.SummaryStats{TotalAnnualProfit: 1234.5e6}},
			CreatedAt: now,
			UpdatedAt: now.Add(1500 * time.Millisecond),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Params:    model.RunParams{Seed: 7, RouteCount: 20},
			Status:    model.RunStatusAnalyzing,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "SEED")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "$1,234.5M")
	assert.Contains(t, output, "1.5s")
	assert.Contains(t, output, "analyzing")
	assert.Contains(t, output, "2025-06-15 10:30")
}

func TestFormatRouteResults(t *testing.T) {
	recs := []model.ProfitabilityRecord{
		{RouteID: "ATL-ORD", RouteType: "Major-Major", AircraftType: model.AircraftA320,
			Revenue: 52_000_000, Profit: 12_500_000, ProfitMargin: 24.04, ROI: 31.6, LoadFactor: 0.8412},
	}

	var buf bytes.Buffer
	formatRouteResults(&buf, recs)

	output := buf.String()
	assert.Contains(t, output, "ROUTE")
	assert.Contains(t, output, "ATL-ORD")
	assert.Contains(t, output, "A320")
	assert.Contains(t, output, "52,000,000")
	assert.Contains(t, output, "12,500,000")
	assert.Contains(t, output, "24.0%")
	assert.Contains(t, output, "84.1%")
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, &monitoring.Snapshot{
		Total: 10, Complete: 7, Failed: 2, InProgress: 1, FailRate: 2.0 / 9.0,
		AvgDurationSecs: 1.26, AvgRoutes: 50, AvgProfitablePct: 64, AvgAnnualProfit: 98_765_432,
	})

	output := buf.String()
	assert.Contains(t, output, "Total runs:")
	assert.Contains(t, output, "10")
	assert.Contains(t, output, "22.2%")
	assert.Contains(t, output, "1.3s")
	assert.Contains(t, output, "$98,765,432")
}

func TestFormatRunStats_NoCompleted(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, &monitoring.Snapshot{Total: 1, Failed: 1, FailRate: 1})
	assert.NotContains(t, buf.String(), "Avg duration")
	assert.Contains(t, buf.String(), "100.0%")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
