package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTransactions writes four years of seasonal orders, three per month.
func writeTransactions(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Row ID,Order Date,Ship Mode,Sales\n")
	id := 1
	for year := 2014; year <= 2017; year++ {
		for m := time.January; m <= time.December; m++ {
			for i, day := range []int{3, 14, 25} {
				amount := 100 + 50*math.Sin(float64(m)*math.Pi/6) + 10*float64(i) + 5*float64(year-2014)
				date := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
				fmt.Fprintf(&b, "%d,%s,Standard Class,%.2f\n", id, date.Format("02/01/2006"), amount)
				id++
			}
		}
	}
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestOverview(t *testing.T) {
	input := writeTransactions(t)
	export := filepath.Join(t.TempDir(), "monthly.csv")

	out, err := run(t, "overview", input, "--export", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Months: 48 (2014-01 to 2017-12)")
	assert.Contains(t, out, "=== Outliers ===")
	assert.Contains(t, out, "=== Mean by calendar month ===")
	assert.Contains(t, out, "Significant PACF lags:")
	assert.Contains(t, out, "Seasonal strength")
	assert.FileExists(t, export)

	// the export feeds the monthly input mode
	out, err = run(t, "forecast", export, "--monthly", "--months", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2018-01-31")
	assert.Contains(t, out, "2018-02-28")
}

func TestOverviewViews(t *testing.T) {
	out, err := run(t, "overview", writeTransactions(t), "--views")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Rolling views ===")
	assert.Contains(t, out, "Holt-Winters")
	assert.Contains(t, out, "n/a", "MA(6) is undefined for the first months")
}

var errWrite = errors.New("write failed")

// failAfter accepts writes until marker has been written, then fails.
type failAfter struct {
	marker string
	buf    strings.Builder
}

func (f *failAfter) Write(p []byte) (int, error) {
	if strings.Contains(f.buf.String(), f.marker) {
		return 0, errWrite
	}
	f.buf.Write(p)
	return len(p), nil
}

func TestOverviewViewsWriteError(t *testing.T) {
	out := &failAfter{marker: "=== Rolling views ==="}
	cmd := newRootCmd(out)
	cmd.SetArgs([]string{"overview", writeTransactions(t), "--views", "--log-level", "error"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, errWrite)
}

func TestEvaluate(t *testing.T) {
	input := writeTransactions(t)
	textfile := filepath.Join(t.TempDir(), "salescast.prom")

	out, err := run(t, "evaluate", input, "--steps", "3,6", "--metrics-textfile", textfile)
	require.NoError(t, err)
	for _, name := range []string{"MA(3)", "MA(6)", "SES", "Holt-Winters", "Auto ARIMA"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "steps=3")
	assert.Contains(t, out, "steps=6")
	assert.Contains(t, out, "Best by RMSE")

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "salescast_evaluation_steps_total")
	// steps=3 windows are a subset of steps=6 windows
	assert.Contains(t, string(data), `salescast_forecast_cache_lookups_total{result="hit",strategy="MA(3)"} 3`)
}

func TestEvaluateLagRegression(t *testing.T) {
	out, err := run(t, "evaluate", writeTransactions(t), "--steps", "4", "--lag-regression", "--cache-size", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Lag OLS(2)")
}

func TestEvaluateInvalidPlan(t *testing.T) {
	_, err := run(t, "evaluate", writeTransactions(t), "--horizon", "0")
	assert.Error(t, err)

	_, err = run(t, "evaluate", writeTransactions(t), "--steps", "48")
	assert.Error(t, err)
}

func TestTrainPredict(t *testing.T) {
	input := writeTransactions(t)
	artifact := filepath.Join(t.TempDir(), "pipeline.json")

	out, err := run(t, "train", input, "--out", artifact)
	require.NoError(t, err)
	assert.Contains(t, out, "RMSE:")
	assert.Contains(t, out, "Durbin-Watson (train residuals)")
	assert.FileExists(t, artifact)

	out, err = run(t, "predict", input, "--model", artifact, "--months", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2018-01-31")
	assert.Contains(t, out, "2018-03-31")
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "salescast.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("forecast:\n  months: 4\n"), 0o644))

	out, err := run(t, "forecast", writeTransactions(t), "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "(4 months")

	// flags win over the file
	out, err = run(t, "forecast", writeTransactions(t), "--config", cfg, "--months", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 months")
}

func TestMissingInput(t *testing.T) {
	_, err := run(t, "overview", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
