package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/salescast/timeseries"
)

// Stationarity tests accepted by NDiffs.
const (
	StationTestKPSS = "kpss"
	StationTestADF  = "adf"
)

// NDiffs determines the number of first differences required for
// stationarity, up to maxD (default 2).
//
// With StationTestADF only the ADF test is consulted. With
// StationTestKPSS (the default) a level is accepted when KPSS and ADF
// agree, or when KPSS alone is comfortably stationary (p > 0.1). ADF cannot
// be estimated on constant data, so the KPSS fallback is what accepts a
// flat series.
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := series
	for d := 0; d < maxD; d++ {
		if isStationary(current, testType) {
			return d
		}
		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}
	return maxD
}

func isStationary(series *timeseries.Series, testType string) bool {
	adf := ADF(series, 0)
	adfStationary := adf != nil && adf.IsStationary
	if testType == StationTestADF {
		return adfStationary
	}

	kpss := KPSS(series, "c", 0)
	if kpss == nil || !kpss.IsStationary {
		return false
	}
	return adfStationary || kpss.PValue > 0.1
}

// NSDiffs determines the number of seasonal differences required, up to
// maxD (default 1). A seasonal difference is taken while the seasonal
// strength F_S is at least 0.64.
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(current, period) < 0.64 {
			return d
		}
		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d + 1
		}
	}
	return maxD
}

// nanVariance is the sample variance ignoring NaN values.
func nanVariance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}

// InformationCriteria holds AIC, AICc and BIC for a fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates all information criteria from a log-likelihood,
// the number of observations and the number of estimated parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}

// GaussianLogLik returns the Gaussian log-likelihood of residuals with the
// given variance. A zero variance is a perfect fit and yields +Inf.
func GaussianLogLik(residuals []float64, variance float64) float64 {
	n := float64(len(residuals))
	if variance <= 0 {
		return math.Inf(1)
	}
	sse := 0.0
	for _, r := range residuals {
		sse += r * r
	}
	return -n/2*math.Log(2*math.Pi) - n/2*math.Log(variance) - sse/(2*variance)
}
