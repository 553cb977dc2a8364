package evaluate

import (
	"fmt"

	"github.com/sartorproj/salescast/autoarima"
	"github.com/sartorproj/salescast/smoothing"
	"github.com/sartorproj/salescast/timeseries"
)

// Strategy is a named forecaster. Forecast receives the training prefix and
// must return exactly h values without modifying train.
type Strategy interface {
	Name() string
	Forecast(train []float64, h int) ([]float64, error)
}

// Func adapts a plain function to a Strategy.
type Func struct {
	name string
	fn   func(train []float64, h int) ([]float64, error)
}

// NewFunc names fn as a Strategy.
func NewFunc(name string, fn func(train []float64, h int) ([]float64, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the strategy name.
func (f *Func) Name() string { return f.name }

// Forecast calls the wrapped function.
func (f *Func) Forecast(train []float64, h int) ([]float64, error) {
	return f.fn(train, h)
}

// MovingAverage forecasts the mean of the last window values.
func MovingAverage(window int) *Func {
	return NewFunc(fmt.Sprintf("MA(%d)", window), func(train []float64, h int) ([]float64, error) {
		return smoothing.MovingAverageForecast(train, window, h)
	})
}

// SES is simple exponential smoothing with a fixed alpha.
func SES(alpha float64) *Func {
	return NewFunc("SES", func(train []float64, h int) ([]float64, error) {
		model := smoothing.NewSES(alpha)
		if err := model.Fit(train); err != nil {
			return nil, err
		}
		return model.Predict(h)
	})
}

// HoltWinters is additive trend and seasonality with period m and
// grid-searched smoothing parameters.
func HoltWinters(m int) *Func {
	return NewFunc("Holt-Winters", func(train []float64, h int) ([]float64, error) {
		cfg := smoothing.DefaultHoltWintersConfig()
		cfg.SeasonalPeriod = m
		model := smoothing.NewHoltWinters(cfg)
		if err := model.Fit(train); err != nil {
			return nil, err
		}
		return model.Predict(h)
	})
}

// AutoARIMA refits an automatically selected seasonal ARIMA on every
// training window. A nil config searches seasonally with period 12.
func AutoARIMA(config *autoarima.Config) *Func {
	if config == nil {
		config = autoarima.SeasonalConfig(12)
	}
	return NewFunc("Auto ARIMA", func(train []float64, h int) ([]float64, error) {
		result, err := autoarima.AutoARIMA(timeseries.New(train), config)
		if err != nil {
			return nil, err
		}
		return result.Predict(h)
	})
}

// Defaults returns the five standard strategies in report order: MA(3),
// MA(6), SES(0.2), Holt-Winters(12) and seasonal Auto ARIMA(12).
func Defaults() []Strategy {
	return []Strategy{
		MovingAverage(3),
		MovingAverage(6),
		SES(0.2),
		HoltWinters(12),
		AutoARIMA(autoarima.SeasonalConfig(12)),
	}
}
