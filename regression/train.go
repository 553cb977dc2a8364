package regression

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/salescast/evaluate"
	"github.com/sartorproj/salescast/stats"
)

// DefaultTrainFraction is the chronological share of rows used for fitting.
const DefaultTrainFraction = 0.8

// Metrics are hold-out errors of a fitted pipeline.
type Metrics struct {
	MAE  float64
	RMSE float64
	// R2 is NaN when the hold-out targets are constant.
	R2 float64
}

// Score compares predictions with actual values.
func Score(actual, predicted []float64) (*Metrics, error) {
	mae, err := evaluate.MAE(actual, predicted)
	if err != nil {
		return nil, err
	}
	rmse, err := evaluate.RMSE(actual, predicted)
	if err != nil {
		return nil, err
	}
	return &Metrics{
		MAE:  mae,
		RMSE: rmse,
		R2:   stat.RSquaredFrom(predicted, actual, nil),
	}, nil
}

// Result is the outcome of Train.
type Result struct {
	Pipeline  *Pipeline
	Train     *Dataset
	Test      *Dataset
	Predicted []float64
	Metrics   *Metrics
	// DurbinWatson is computed on the in-sample residuals. It is nil when
	// the fit is exact.
	DurbinWatson *stats.DurbinWatsonResult
}

// Train builds lag features from values, fits a pipeline on the first
// trainFrac of rows and scores it on the rest.
func Train(values []float64, lags int, trainFrac float64) (*Result, error) {
	if lags < 1 {
		lags = DefaultLags
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		trainFrac = DefaultTrainFraction
	}

	data, err := LagFeatures(values, lags)
	if err != nil {
		return nil, err
	}
	train, test := data.Split(trainFrac)
	if train.Len() == 0 || test.Len() == 0 {
		return nil, fmt.Errorf("%w: %d rows cannot be split %.0f/%.0f",
			ErrInsufficientData, data.Len(), trainFrac*100, (1-trainFrac)*100)
	}

	p := NewPipeline(lags)
	if err := p.Fit(train.X, train.Y); err != nil {
		return nil, fmt.Errorf("fit pipeline: %w", err)
	}
	fitted, err := p.Predict(train.X)
	if err != nil {
		return nil, err
	}
	residuals := make([]float64, len(fitted))
	for i := range fitted {
		residuals[i] = train.Y[i] - fitted[i]
	}

	predicted, err := p.Predict(test.X)
	if err != nil {
		return nil, err
	}
	metrics, err := Score(test.Y, predicted)
	if err != nil {
		return nil, err
	}
	return &Result{
		Pipeline:     p,
		Train:        train,
		Test:         test,
		Predicted:    predicted,
		Metrics:      metrics,
		DurbinWatson: stats.DurbinWatson(residuals),
	}, nil
}

// Strategy refits a lag pipeline on every training window and forecasts
// recursively. It can be evaluated alongside the default strategies.
func Strategy(lags int) *evaluate.Func {
	if lags < 1 {
		lags = DefaultLags
	}
	return evaluate.NewFunc(fmt.Sprintf("Lag OLS(%d)", lags), func(train []float64, h int) ([]float64, error) {
		data, err := LagFeatures(train, lags)
		if err != nil {
			return nil, err
		}
		p := NewPipeline(lags)
		if err := p.Fit(data.X, data.Y); err != nil {
			return nil, err
		}
		return p.Forecast(train, h)
	})
}
