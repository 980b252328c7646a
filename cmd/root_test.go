package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"analyze", "runs", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "route-analyzer", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	for _, name := range []string{"seed", "routes", "output-dir", "formats", "no-viz", "no-export", "no-store", "use-sample-data"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze command should have --%s flag", name)
	}
	assert.Equal(t, "42", analyzeCmd.Flags().Lookup("seed").DefValue)
	assert.Equal(t, "false", analyzeCmd.Flags().Lookup("no-viz").DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "stats"} {
		assert.True(t, names[name], "expected runs subcommand %q not found", name)
	}

	flag := runsShowCmd.Flags().Lookup("routes")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestInitStore_Drivers(t *testing.T) {
	c := setTestConfig(t)
	ctx := context.Background()

	st, err := initStore(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NoError(t, st.Close())

	c.Store.Driver = "none"
	st, err = initStore(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	_, err = requireStore(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires store.driver")

	c.Store.Driver = "mysql"
	_, err = initStore(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}
