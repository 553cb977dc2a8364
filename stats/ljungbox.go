package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/salescast/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests residuals for autocorrelation up to lag h. fitdf is the
// number of estimated ARMA parameters. A p-value below 0.05 indicates
// remaining autocorrelation.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	chi2 := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi2.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatsonResult holds the Durbin-Watson statistic. Values near 2
// indicate no first-order autocorrelation, values toward 0 positive and
// toward 4 negative autocorrelation.
type DurbinWatsonResult struct {
	Statistic float64
}

// Autocorrelation classifies the statistic with the usual 1.5 to 2.5 band.
func (r *DurbinWatsonResult) Autocorrelation() string {
	switch {
	case r.Statistic < 1.5:
		return "positive"
	case r.Statistic > 2.5:
		return "negative"
	default:
		return "none"
	}
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation of residuals. Returns nil for fewer than two residuals or
// when all residuals are zero.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}
	denominator := 0.0
	for _, r := range residuals {
		denominator += r * r
	}
	if denominator == 0 {
		return nil
	}

	return &DurbinWatsonResult{Statistic: numerator / denominator}
}
