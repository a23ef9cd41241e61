package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsplit/internal/shared/testutil"
)

func TestNewPaths(t *testing.T) {
	t.Run("relative paths become absolute", func(t *testing.T) {
		cfg := Default()
		cfg.Split.InputDir = "in"
		cfg.Split.OutputDir = "out"

		paths, err := NewPaths(cfg)
		require.NoError(t, err)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(wd, "in"), paths.InputDir)
		assert.Equal(t, filepath.Join(wd, "out"), paths.OutputDir)
		assert.Empty(t, paths.LogFile, "console logging has no log file")
		assert.Empty(t, paths.MetricsFile)
	})

	t.Run("log and metrics files resolved when configured", func(t *testing.T) {
		tmp := t.TempDir()
		cfg := Default()
		cfg.Logging.Output = "both"
		cfg.Logging.FilePath = filepath.Join(tmp, "logs", "run.log")
		cfg.Telemetry.MetricsFile = filepath.Join(tmp, "metrics", "run.prom")

		paths, err := NewPaths(cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.Logging.FilePath, paths.LogFile)
		assert.Equal(t, cfg.Telemetry.MetricsFile, paths.MetricsFile)
	})
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	paths := &Paths{
		InputDir:    tmp,
		OutputDir:   filepath.Join(tmp, "out", "nested"),
		LogFile:     filepath.Join(tmp, "logs", "run.log"),
		MetricsFile: filepath.Join(tmp, "metrics", "run.prom"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.OutputDir, filepath.Dir(paths.LogFile), filepath.Dir(paths.MetricsFile)} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), dir)
	}

	// Idempotent
	assert.NoError(t, paths.EnsureDirectories())
}

func TestEnsureDirectories_OutputIsFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "taken")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := (&Paths{InputDir: tmp, OutputDir: file}).EnsureDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestLogPathResolution(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	paths := &Paths{InputDir: "/in", OutputDir: "/in/split_by_month"}

	paths.LogPathResolution(logger)

	require.Equal(t, 1, logs.Count())
	assert.True(t, logs.ContainsAttr("directories.output", "/in/split_by_month"))
}
