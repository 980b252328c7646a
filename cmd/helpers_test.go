package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/route-profitability/internal/config"
	"github.com/sells-group/route-profitability/internal/store"
)

// setTestConfig installs a config rooted in a temp dir for the duration of
// the test. Tests that touch the global cfg must not run in parallel.
func setTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c := &config.Config{}
	c.Generator.Seed = 42
	c.Generator.RouteCount = 8
	c.Generator.FuelBasePrice = 2.8
	c.Generator.FuelTrend = 0.08
	c.Analysis.TopN = 5
	c.Recommend.ExpandMinMargin = 15
	c.Recommend.ExpandMinROI = 20
	c.Export.OutputDir = filepath.Join(dir, "outputs")
	c.Export.Formats = config.ExportFormats
	c.Export.Charts = true
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(dir, "routes.db")
	c.Server.Port = 8080
	c.Log.Level = "info"
	c.Log.Format = "json"

	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
	return c
}

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}
