package evaluate

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"
)

// Score aggregates one strategy's evaluation. Metrics are means over the
// successful steps and NaN when there were none.
type Score struct {
	Strategy  string
	MAE       float64
	RMSE      float64
	MAPE      float64
	Steps     int // successful steps
	MAPESteps int // steps contributing to MAPE
	// FailedStep is the step that abandoned the strategy, or -1.
	FailedStep int
	Err        error
}

// Truncated reports whether the strategy stopped before the last step.
func (s Score) Truncated() bool {
	return s.FailedStep >= 0
}

// Report is the outcome of one Evaluate call. Scores follow the order the
// strategies were given in.
type Report struct {
	RunID     string
	Plan      Plan
	N         int
	StartedAt time.Time
	Duration  time.Duration
	Scores    []Score
}

// Score returns the score for the named strategy.
func (r *Report) Score(name string) (Score, bool) {
	for _, s := range r.Scores {
		if s.Strategy == name {
			return s, true
		}
	}
	return Score{}, false
}

// Best returns the strategy with the lowest RMSE among those that completed
// every step. ok is false when none did.
func (r *Report) Best() (best Score, ok bool) {
	for _, s := range r.Scores {
		if s.Truncated() || math.IsNaN(s.RMSE) {
			continue
		}
		if !ok || s.RMSE < best.RMSE {
			best, ok = s, true
		}
	}
	return best, ok
}

// Render writes the report as an aligned table.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintf(w, "Forward-chaining evaluation (run %s)\n", r.RunID)
	fmt.Fprintf(w, "N=%d train=%d horizon=%d steps=%d\n\n", r.N, r.Plan.Train, r.Plan.Horizon, r.Plan.Steps)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Strategy\tMAE\tRMSE\tMAPE\tSteps\t")
	for _, s := range r.Scores {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t\n",
			s.Strategy, formatMetric(s.MAE), formatMetric(s.RMSE), formatMetric(s.MAPE),
			s.Steps, r.Plan.Steps)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range r.Scores {
		if s.Truncated() {
			fmt.Fprintf(w, "\n%s stopped at step %d: %v", s.Strategy, s.FailedStep, s.Err)
		} else if s.MAPESteps < s.Steps {
			fmt.Fprintf(w, "\n%s: MAPE over %d of %d steps (zero actuals skipped)", s.Strategy, s.MAPESteps, s.Steps)
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
