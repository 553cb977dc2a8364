package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salescast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Order Date", cfg.Input.DateColumn)
	assert.Equal(t, "Sales", cfg.Input.SalesColumn)
	assert.Equal(t, 1.5, cfg.Input.IQRMultiplier)
	assert.Equal(t, 0, cfg.Evaluation.Train)
	assert.Equal(t, 1, cfg.Evaluation.Horizon)
	assert.Equal(t, 12, cfg.Evaluation.Steps)
	assert.Equal(t, []int{3, 6}, cfg.Evaluation.MAWindows)
	assert.Equal(t, 0.2, cfg.Evaluation.SESAlpha)
	assert.Equal(t, 12, cfg.Evaluation.SeasonalPeriod)
	assert.Equal(t, "aic", cfg.Evaluation.Criterion)
	assert.True(t, cfg.Evaluation.Stepwise)
	assert.Equal(t, 24, cfg.Forecast.Months)
	assert.Equal(t, 2, cfg.Regression.Lags)
	assert.Equal(t, 0.8, cfg.Regression.TrainFraction)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SALESCAST_EVALUATION_STEPS", "6")
	t.Setenv("SALESCAST_EVALUATION_MA_WINDOWS", "2,4,8")
	t.Setenv("SALESCAST_LOGGING_LEVEL", "debug")
	t.Setenv("STEPS", "99") // unprefixed names are ignored

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Evaluation.Steps)
	assert.Equal(t, []int{2, 4, 8}, cfg.Evaluation.MAWindows)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFileOverridesEnv(t *testing.T) {
	t.Setenv("SALESCAST_EVALUATION_STEPS", "6")
	t.Setenv("SALESCAST_EVALUATION_HORIZON", "2")
	path := writeFile(t, `
evaluation:
  steps: 18
input:
  sheet: Orders
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 18, cfg.Evaluation.Steps, "file beats env")
	assert.Equal(t, 2, cfg.Evaluation.Horizon, "env kept when the file is silent")
	assert.Equal(t, "Orders", cfg.Input.Sheet)
	assert.Equal(t, "Order Date", cfg.Input.DateColumn, "default kept")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "evaluation:\n  stepz: 3\n"},
		{name: "zero horizon", content: "evaluation:\n  horizon: 0\n"},
		{name: "bad criterion", content: "evaluation:\n  criterion: hqic\n"},
		{name: "bad window", content: "evaluation:\n  ma_windows: [3, 0]\n"},
		{name: "bad level", content: "logging:\n  level: loud\n"},
		{name: "fraction out of range", content: "regression:\n  train_fraction: 1.2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("SALESCAST_FORECAST_MONTHS", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidateAfterOverride(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Evaluation.Steps = 0
	assert.Error(t, cfg.Validate())
}
