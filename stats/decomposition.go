package stats

import (
	"math"

	"github.com/sartorproj/salescast/timeseries"
)

// Decomposition types.
const (
	Additive       = "additive"
	Multiplicative = "multiplicative"
)

// DecompositionResult represents the decomposition of a time series.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string
}

// Decompose performs classical seasonal decomposition of a time series.
// The trend is a centered moving average, so the first and last period/2
// trend and residual values are NaN. Returns nil if the series is shorter
// than two periods.
func Decompose(series *timeseries.Series, period int, decompositionType string) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	if decompositionType != Multiplicative {
		decompositionType = Additive
	}

	// remove takes a component out of y under the chosen model
	remove := func(y, c float64) float64 { return y - c }
	if decompositionType == Multiplicative {
		remove = func(y, c float64) float64 {
			if c == 0 {
				return math.NaN()
			}
			return y / c
		}
	}

	trend := centeredMovingAverage(series.Values, period)

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range series.Values {
		if math.IsNaN(trend[i]) {
			continue
		}
		d := remove(v, trend[i])
		if math.IsNaN(d) {
			continue
		}
		pattern[i%period] += d
		counts[i%period]++
	}
	mean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)
	for i := range pattern {
		if decompositionType == Multiplicative {
			if mean != 0 {
				pattern[i] /= mean
			}
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, v := range series.Values {
		seasonal[i] = pattern[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
			continue
		}
		residual[i] = remove(remove(v, trend[i]), seasonal[i])
	}

	return &DecompositionResult{
		Original: series,
		Trend:    &timeseries.Series{Values: trend, Timestamps: series.Timestamps, Name: "trend"},
		Seasonal: &timeseries.Series{Values: seasonal, Timestamps: series.Timestamps, Name: "seasonal"},
		Residual: &timeseries.Series{Values: residual, Timestamps: series.Timestamps, Name: "residual"},
		Period:   period,
		Type:     decompositionType,
	}
}

// centeredMovingAverage uses a 2xm MA for even periods and an m MA for odd.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		for j := i - half; j <= i+half; j++ {
			w := 1.0
			if period%2 == 0 && (j == i-half || j == i+half) {
				w = 0.5
			}
			sum += w * values[j]
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// SeasonalStrength returns F_S = max(0, 1 - Var(R)/Var(S+R)) from an
// additive decomposition, or 0 if the series is too short.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period, Additive)
	if decomp == nil {
		return 0
	}

	seasonalPlusResid := make([]float64, len(decomp.Seasonal.Values))
	for i := range seasonalPlusResid {
		seasonalPlusResid[i] = decomp.Seasonal.Values[i] + decomp.Residual.Values[i]
	}
	varSR := nanVariance(seasonalPlusResid)
	if varSR == 0 {
		return 0
	}
	return math.Max(0, 1-nanVariance(decomp.Residual.Values)/varSR)
}

// TrendStrength returns F_T = max(0, 1 - Var(R)/Var(T+R)).
func TrendStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period, Additive)
	if decomp == nil {
		return 0
	}

	trendPlusResid := make([]float64, len(decomp.Trend.Values))
	for i := range trendPlusResid {
		trendPlusResid[i] = decomp.Trend.Values[i] + decomp.Residual.Values[i]
	}
	varTR := nanVariance(trendPlusResid)
	if varTR == 0 {
		return 0
	}
	return math.Max(0, 1-nanVariance(decomp.Residual.Values)/varTR)
}
