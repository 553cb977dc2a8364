package smoothing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SeasonalType defines how seasonality is modeled.
type SeasonalType string

const (
	SeasonalAdditive       SeasonalType = "additive"
	SeasonalMultiplicative SeasonalType = "multiplicative"
)

// TrendType defines how trend is modeled.
type TrendType string

const (
	TrendAdditive TrendType = "additive"
	TrendDamped   TrendType = "damped"
)

// HoltWintersConfig configures a Holt-Winters model. Alpha, Beta and Gamma
// left at zero are chosen by grid search on the in-sample SSE.
type HoltWintersConfig struct {
	SeasonalPeriod int
	MinSeasons     int
	SeasonalType   SeasonalType
	TrendType      TrendType
	DampingFactor  float64

	Alpha float64
	Beta  float64
	Gamma float64
}

// DefaultHoltWintersConfig is additive trend and season over a yearly
// cycle of monthly data.
func DefaultHoltWintersConfig() *HoltWintersConfig {
	return &HoltWintersConfig{
		SeasonalPeriod: 12,
		MinSeasons:     2,
		SeasonalType:   SeasonalAdditive,
		TrendType:      TrendAdditive,
		DampingFactor:  0.98,
	}
}

// HoltWinters implements triple exponential smoothing:
//
//	Level:    L_t = alpha(Y_t - S_{t-m}) + (1-alpha)(L_{t-1} + T_{t-1})
//	Trend:    T_t = beta(L_t - L_{t-1}) + (1-beta)T_{t-1}
//	Seasonal: S_t = gamma(Y_t - L_t) + (1-gamma)S_{t-m}
//	Forecast: F_{t+h} = L_t + h*T_t + S_{t-m+h}
//
// The updates are computed in error-correction form, so a series the model
// reproduces exactly stays exact.
type HoltWinters struct {
	config HoltWintersConfig

	alpha float64
	beta  float64
	gamma float64

	// state after the last observation
	level     float64
	trend     float64
	seasonals []float64

	n            int
	sse          float64
	fittedValues []float64
	residuals    []float64
	fitted       bool
}

// NewHoltWinters creates a model. A nil config uses the defaults.
func NewHoltWinters(config *HoltWintersConfig) *HoltWinters {
	if config == nil {
		config = DefaultHoltWintersConfig()
	}
	c := *config
	if c.MinSeasons < 2 {
		c.MinSeasons = 2
	}
	if c.SeasonalType == "" {
		c.SeasonalType = SeasonalAdditive
	}
	if c.TrendType == "" {
		c.TrendType = TrendAdditive
	}
	return &HoltWinters{config: c}
}

// Fit estimates the model on data.
func (hw *HoltWinters) Fit(data []float64) error {
	m := hw.config.SeasonalPeriod
	if m < 2 {
		return fmt.Errorf("%w: seasonal period must be at least 2, got %d", ErrInvalidParameter, m)
	}
	if minRequired := m * hw.config.MinSeasons; len(data) < minRequired {
		return fmt.Errorf("%w: need at least %d points (%d seasons), got %d",
			ErrInsufficientData, minRequired, hw.config.MinSeasons, len(data))
	}
	if hw.config.SeasonalType == SeasonalMultiplicative {
		for _, v := range data {
			if v <= 0 {
				return fmt.Errorf("%w: multiplicative seasonality needs positive data", ErrInvalidParameter)
			}
		}
	}
	for _, p := range []float64{hw.config.Alpha, hw.config.Beta, hw.config.Gamma} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: smoothing parameters must be in [0, 1], got %v", ErrInvalidParameter, p)
		}
	}

	if hw.config.Alpha == 0 || hw.config.Beta == 0 || hw.config.Gamma == 0 {
		hw.optimizeParameters(data)
	} else {
		hw.alpha, hw.beta, hw.gamma = hw.config.Alpha, hw.config.Beta, hw.config.Gamma
	}

	hw.n = len(data)
	hw.fittedValues = make([]float64, len(data))
	hw.residuals = make([]float64, len(data))
	hw.sse = hw.run(data, hw.alpha, hw.beta, hw.gamma, hw.fittedValues)
	for t, v := range data {
		hw.residuals[t] = v - hw.fittedValues[t]
	}

	hw.fitted = true
	return nil
}

// initialState derives level, trend and seasonal indices from the first
// two seasons.
func (hw *HoltWinters) initialState(data []float64) (level, trend float64, seasonals []float64) {
	m := hw.config.SeasonalPeriod

	for i := 0; i < m; i++ {
		level += data[i]
	}
	level /= float64(m)

	for i := 0; i < m; i++ {
		trend += (data[m+i] - data[i]) / float64(m)
	}
	trend /= float64(m)

	seasonals = make([]float64, m)
	mean := 0.0
	for i := 0; i < m; i++ {
		if hw.config.SeasonalType == SeasonalMultiplicative {
			seasonals[i] = data[i] / level
		} else {
			seasonals[i] = data[i] - level
		}
		mean += seasonals[i]
	}
	mean /= float64(m)

	// additive indices sum to 0, multiplicative ones average 1
	for i := range seasonals {
		if hw.config.SeasonalType == SeasonalMultiplicative {
			seasonals[i] /= mean
		} else {
			seasonals[i] -= mean
		}
	}
	return level, trend, seasonals
}

// run filters data with the given parameters, writes one-step predictions
// to fitted when non-nil, stores the final state and returns the SSE over
// observations after the first season.
func (hw *HoltWinters) run(data []float64, alpha, beta, gamma float64, fitted []float64) float64 {
	m := hw.config.SeasonalPeriod
	multiplicative := hw.config.SeasonalType == SeasonalMultiplicative
	phi := 1.0
	if hw.config.TrendType == TrendDamped {
		phi = hw.config.DampingFactor
	}

	level, trend, seasonals := hw.initialState(data)

	sse := 0.0
	for t, y := range data {
		idx := t % m
		base := level + phi*trend

		var pred float64
		if multiplicative {
			pred = base * seasonals[idx]
		} else {
			pred = base + seasonals[idx]
		}
		if fitted != nil {
			fitted[t] = pred
		}
		if t < m {
			// the first season only seeds the state
			continue
		}

		e := y - pred
		sse += e * e

		prevLevel := level
		if multiplicative {
			level = base + alpha*(y/seasonals[idx]-base)
			trend = phi*trend + beta*((level-prevLevel)-phi*trend)
			seasonals[idx] += gamma * (y/level - seasonals[idx])
		} else {
			level = base + alpha*((y-seasonals[idx])-base)
			trend = phi*trend + beta*((level-prevLevel)-phi*trend)
			seasonals[idx] += gamma * ((y - level) - seasonals[idx])
		}
	}

	hw.level, hw.trend, hw.seasonals = level, trend, seasonals
	return sse
}

// optimizeParameters grid-searches alpha in {0.1..0.9}, beta and gamma in
// {0.01, 0.06, .., 0.46}. Parameters fixed in the config are not searched.
func (hw *HoltWinters) optimizeParameters(data []float64) {
	grid := func(fixed float64, values []float64) []float64 {
		if fixed > 0 {
			return []float64{fixed}
		}
		return values
	}
	alphas := make([]float64, 9)
	for i := range alphas {
		alphas[i] = float64(i+1) / 10
	}
	betas := make([]float64, 10)
	for i := range betas {
		betas[i] = 0.01 + 0.05*float64(i)
	}

	bestAlpha, bestBeta, bestGamma := 0.2, 0.1, 0.1
	bestSSE := math.Inf(1)
	for _, alpha := range grid(hw.config.Alpha, alphas) {
		for _, beta := range grid(hw.config.Beta, betas) {
			for _, gamma := range grid(hw.config.Gamma, betas) {
				sse := hw.run(data, alpha, beta, gamma, nil)
				if sse < bestSSE {
					bestSSE = sse
					bestAlpha, bestBeta, bestGamma = alpha, beta, gamma
				}
			}
		}
	}
	hw.alpha, hw.beta, hw.gamma = bestAlpha, bestBeta, bestGamma
}

// Predict forecasts h steps after the last observation.
func (hw *HoltWinters) Predict(h int) ([]float64, error) {
	if !hw.fitted {
		return nil, ErrNotFitted
	}
	if err := checkHorizon(h); err != nil {
		return nil, err
	}

	m := hw.config.SeasonalPeriod
	out := make([]float64, h)
	for step := 1; step <= h; step++ {
		base := hw.level + hw.trendSum(step)
		idx := (hw.n + step - 1) % m
		if hw.config.SeasonalType == SeasonalMultiplicative {
			out[step-1] = base * hw.seasonals[idx]
		} else {
			out[step-1] = base + hw.seasonals[idx]
		}
	}
	return out, nil
}

// PredictWithInterval returns forecasts with symmetric normal intervals
// whose width grows with the square root of the horizon.
func (hw *HoltWinters) PredictWithInterval(h int, confidence float64) (forecasts, lower, upper []float64, err error) {
	forecasts, err = hw.Predict(h)
	if err != nil {
		return nil, nil, nil, err
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	se := hw.residualStdErr()
	lower = make([]float64, h)
	upper = make([]float64, h)
	for i, f := range forecasts {
		width := z * se * math.Sqrt(float64(i+1))
		lower[i] = f - width
		upper[i] = f + width
	}
	return forecasts, lower, upper, nil
}

// trendSum is h*T, or phi+phi^2+..+phi^h times T for a damped trend.
func (hw *HoltWinters) trendSum(h int) float64 {
	if hw.config.TrendType != TrendDamped || hw.config.DampingFactor >= 1 {
		return float64(h) * hw.trend
	}
	phi := hw.config.DampingFactor
	return hw.trend * phi * (1 - math.Pow(phi, float64(h))) / (1 - phi)
}

// residualStdErr uses residuals after the first season with three degrees
// of freedom taken by the smoothing parameters.
func (hw *HoltWinters) residualStdErr() float64 {
	m := hw.config.SeasonalPeriod
	df := float64(hw.n - m - 3)
	if df < 1 {
		df = 1
	}
	return math.Sqrt(hw.sse / df)
}

// FittedValues returns the one-step-ahead in-sample predictions.
func (hw *HoltWinters) FittedValues() []float64 {
	out := make([]float64, len(hw.fittedValues))
	copy(out, hw.fittedValues)
	return out
}

// Residuals returns observed minus fitted values.
func (hw *HoltWinters) Residuals() []float64 {
	out := make([]float64, len(hw.residuals))
	copy(out, hw.residuals)
	return out
}

// Params holds the chosen smoothing parameters and the final state.
type Params struct {
	Alpha     float64
	Beta      float64
	Gamma     float64
	Level     float64
	Trend     float64
	Seasonals []float64
	SSE       float64
}

// Params returns the fitted parameters, or nil before Fit.
func (hw *HoltWinters) Params() *Params {
	if !hw.fitted {
		return nil
	}
	seasonals := make([]float64, len(hw.seasonals))
	copy(seasonals, hw.seasonals)
	return &Params{
		Alpha:     hw.alpha,
		Beta:      hw.beta,
		Gamma:     hw.gamma,
		Level:     hw.level,
		Trend:     hw.trend,
		Seasonals: seasonals,
		SSE:       hw.sse,
	}
}
