package stats

import (
	"math"

	"github.com/sartorproj/salescast/timeseries"
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag, or nil for a constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := series.Mean()
	centered := make([]float64, n)
	denom := 0.0
	for i, v := range series.Values {
		centered[i] = v - mean
		denom += centered[i] * centered[i]
	}
	if denom == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += centered[i] * centered[i-k]
		}
		acf[k] = sum / denom
	}

	return acf
}

// PACF calculates the Partial Autocorrelation Function for lags 0 to maxLag
// using the Durbin-Levinson recursion. Returns nil when the ACF is undefined.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	acf := ACF(series, maxLag)
	if len(acf) < 2 {
		return nil
	}
	maxLag = len(acf) - 1

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1
	pacf[1] = acf[1]

	// phi holds the AR(k-1) coefficients, next the AR(k) ones
	phi := make([]float64, maxLag+1)
	next := make([]float64, maxLag+1)
	phi[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num, den := acf[k], 1.0
		for j := 1; j < k; j++ {
			num -= phi[j] * acf[k-j]
			den -= phi[j] * acf[j]
		}
		if den == 0 {
			break
		}

		next[k] = num / den
		pacf[k] = next[k]
		for j := 1; j < k; j++ {
			next[j] = phi[j] - next[k]*phi[k-j]
		}
		phi, next = next, phi
	}

	return pacf
}

// ACFBound returns the approximate 95% significance bound for ACF values.
func ACFBound(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return 1.96 / math.Sqrt(float64(n))
}

// SignificantLags returns the lags where ACF or PACF values exceed the bound.
func SignificantLags(values []float64, bound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]) > bound {
			significant = append(significant, i)
		}
	}
	return significant
}
