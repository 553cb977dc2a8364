package evaluate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sartorproj/salescast/timeseries"
)

var (
	// ErrInvalidPlan is returned when the plan does not fit the series.
	ErrInvalidPlan = errors.New("invalid evaluation plan")
	// ErrForecastLength is a strategy failure: the forecast is not h values long.
	ErrForecastLength = errors.New("forecast has the wrong length")
	// ErrNonFinite is a strategy failure: the forecast contains NaN or Inf.
	ErrNonFinite = errors.New("forecast is not finite")
)

// Plan fixes the evaluation windows. Step i trains on series[0:Train+i]
// and tests on series[Train+i : Train+i+Horizon].
type Plan struct {
	Train   int // initial training size; 0 means N - Steps
	Horizon int
	Steps   int
}

// DefaultPlan is twelve one-month-ahead steps over the last year.
func DefaultPlan() Plan {
	return Plan{Horizon: 1, Steps: 12}
}

// Resolve fills the default training size for a series of length n and
// validates the plan.
func (p Plan) Resolve(n int) (Plan, error) {
	if p.Train == 0 {
		p.Train = n - p.Steps
	}
	switch {
	case p.Horizon < 1:
		return p, fmt.Errorf("%w: horizon %d < 1", ErrInvalidPlan, p.Horizon)
	case p.Steps < 1:
		return p, fmt.Errorf("%w: steps %d < 1", ErrInvalidPlan, p.Steps)
	case p.Train < 1:
		return p, fmt.Errorf("%w: training size %d < 1 for %d points", ErrInvalidPlan, p.Train, n)
	case p.Train+p.Steps-1+p.Horizon > n:
		return p, fmt.Errorf("%w: train %d + steps %d - 1 + horizon %d exceeds %d points",
			ErrInvalidPlan, p.Train, p.Steps, p.Horizon, n)
	}
	return p, nil
}

// StepResult is passed to an Observer after every attempted step.
type StepResult struct {
	Strategy string
	Step     int
	Actual   []float64
	Forecast []float64
	MAE      float64
	RMSE     float64
	MAPE     float64 // NaN when skipped for a zero actual
	Err      error
	Elapsed  time.Duration
}

// Observer receives step results as the evaluation runs.
type Observer interface {
	ObserveStep(StepResult)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(StepResult)

// ObserveStep calls f.
func (f ObserverFunc) ObserveStep(r StepResult) { f(r) }

type options struct {
	logger    *zap.Logger
	observers []Observer
}

// Option configures Evaluate.
type Option func(*options)

// WithLogger logs strategy failures and per-strategy summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an observer for every step.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// Evaluate runs forward-chaining evaluation of each strategy over series.
//
// The first error from a strategy abandons it: nothing is recorded for the
// failing step, later steps are not run, and evaluation continues with the
// next strategy. The truncation is visible in Score.Steps and
// Score.FailedStep.
func Evaluate(series *timeseries.Series, strategies []Strategy, plan Plan, opts ...Option) (*Report, error) {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	n := series.Len()
	resolved, err := plan.Resolve(n)
	if err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no strategies", ErrInvalidPlan)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Plan:      resolved,
		N:         n,
		StartedAt: time.Now().UTC(),
		Scores:    make([]Score, 0, len(strategies)),
	}

	log := o.logger.With(zap.String("run_id", report.RunID))
	log.Info("evaluation started",
		zap.Int("n", n),
		zap.Int("train", resolved.Train),
		zap.Int("horizon", resolved.Horizon),
		zap.Int("steps", resolved.Steps),
		zap.Int("strategies", len(strategies)))

	for _, s := range strategies {
		score := evaluateStrategy(series.Values, s, resolved, o, log)
		report.Scores = append(report.Scores, score)
	}

	report.Duration = time.Since(report.StartedAt)
	log.Info("evaluation finished", zap.Duration("duration", report.Duration))
	return report, nil
}

func evaluateStrategy(values []float64, s Strategy, plan Plan, o *options, log *zap.Logger) Score {
	name := s.Name()
	score := Score{Strategy: name, FailedStep: -1}

	var sumMAE, sumRMSE, sumMAPE float64
	for i := 0; i < plan.Steps; i++ {
		end := plan.Train + i
		// a full slice expression keeps appends in the strategy off the series
		train := values[:end:end]
		actual := values[end : end+plan.Horizon]

		start := time.Now()
		res := runStep(s, train, actual, plan.Horizon)
		res.Strategy = name
		res.Step = i
		res.Elapsed = time.Since(start)

		for _, obs := range o.observers {
			obs.ObserveStep(res)
		}

		if res.Err != nil {
			score.FailedStep = i
			score.Err = res.Err
			log.Warn("strategy failed at step",
				zap.String("strategy", name),
				zap.Int("step", i),
				zap.Int("train_size", end),
				zap.Error(res.Err))
			break
		}

		score.Steps++
		sumMAE += res.MAE
		sumRMSE += res.RMSE
		if !math.IsNaN(res.MAPE) {
			score.MAPESteps++
			sumMAPE += res.MAPE
		}
	}

	score.MAE = mean(sumMAE, score.Steps)
	score.RMSE = mean(sumRMSE, score.Steps)
	score.MAPE = mean(sumMAPE, score.MAPESteps)

	log.Debug("strategy evaluated",
		zap.String("strategy", name),
		zap.Int("steps", score.Steps),
		zap.Float64("mae", score.MAE),
		zap.Float64("rmse", score.RMSE))
	return score
}

// runStep forecasts one window and scores it. Strategy errors, wrong
// lengths and non-finite values all fail the step; a zero actual only
// drops the MAPE term.
func runStep(s Strategy, train, actual []float64, h int) StepResult {
	res := StepResult{Actual: actual, MAPE: math.NaN()}

	forecast, err := s.Forecast(train, h)
	if err != nil {
		res.Err = err
		return res
	}
	res.Forecast = forecast
	if len(forecast) != h {
		res.Err = fmt.Errorf("%w: got %d values, want %d", ErrForecastLength, len(forecast), h)
		return res
	}
	for j, f := range forecast {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			res.Err = fmt.Errorf("%w: value %d is %v", ErrNonFinite, j, f)
			return res
		}
	}

	if res.MAE, res.Err = MAE(actual, forecast); res.Err != nil {
		return res
	}
	if res.RMSE, res.Err = RMSE(actual, forecast); res.Err != nil {
		return res
	}
	mape, err := MAPE(actual, forecast)
	switch {
	case err == nil:
		res.MAPE = mape
	case !errors.Is(err, ErrZeroActual):
		res.Err = err
	}
	return res
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
