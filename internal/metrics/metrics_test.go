package metrics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sartorproj/salescast/evaluate"
	"github.com/sartorproj/salescast/timeseries"
)

func TestObserveStep(t *testing.T) {
	r := NewRecorder()

	r.ObserveStep(evaluate.StepResult{Strategy: "MA(3)", Step: 0, Elapsed: time.Millisecond})
	r.ObserveStep(evaluate.StepResult{Strategy: "MA(3)", Step: 1, Elapsed: time.Millisecond})
	r.ObserveStep(evaluate.StepResult{Strategy: "MA(6)", Step: 0, Err: errors.New("short")})

	if got := testutil.ToFloat64(r.StepsTotal.WithLabelValues("MA(3)", StatusSuccess)); got != 2 {
		t.Errorf("MA(3) successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.StepsTotal.WithLabelValues("MA(6)", StatusFailure)); got != 1 {
		t.Errorf("MA(6) failures = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.StepDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestRecordReport(t *testing.T) {
	r := NewRecorder()
	report := &evaluate.Report{
		Duration: 2 * time.Second,
		Scores: []evaluate.Score{
			{Strategy: "SES", MAE: 0.5, RMSE: 0.7, MAPE: 3, Steps: 12, MAPESteps: 12, FailedStep: -1},
			{Strategy: "MA(6)", MAE: math.NaN(), RMSE: math.NaN(), MAPE: math.NaN(), FailedStep: 0, Err: errors.New("short")},
		},
	}
	r.RecordReport(report)

	if got := testutil.ToFloat64(r.Score.WithLabelValues("SES", "rmse")); got != 0.7 {
		t.Errorf("SES rmse = %v, want 0.7", got)
	}
	if got := testutil.ToFloat64(r.Truncated.WithLabelValues("MA(6)")); got != 1 {
		t.Errorf("MA(6) truncated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.Truncated.WithLabelValues("SES")); got != 0 {
		t.Errorf("SES truncated = %v, want 0", got)
	}
	// only the three SES scores are defined
	if n := testutil.CollectAndCount(r.Score); n != 3 {
		t.Errorf("score series = %d, want 3", n)
	}
	if got := testutil.ToFloat64(r.RunDuration); got != 2 {
		t.Errorf("run duration = %v, want 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveStep(evaluate.StepResult{Strategy: "SES"})
	r.RecordCache("SES", 3, 1)

	path := filepath.Join(t.TempDir(), "salescast.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`salescast_evaluation_steps_total{status="success",strategy="SES"} 1`,
		`salescast_forecast_cache_lookups_total{result="hit",strategy="SES"} 3`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestRecorderObservesEvaluation(t *testing.T) {
	r := NewRecorder()
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i + 1)
	}
	series := timeseries.New(values)

	report, err := evaluate.Evaluate(series, []evaluate.Strategy{evaluate.MovingAverage(3)},
		evaluate.Plan{Horizon: 1, Steps: 4}, evaluate.WithObserver(r))
	if err != nil {
		t.Fatal(err)
	}
	r.RecordReport(report)

	if got := testutil.ToFloat64(r.StepsTotal.WithLabelValues("MA(3)", StatusSuccess)); got != 4 {
		t.Errorf("steps = %v, want 4", got)
	}
}
