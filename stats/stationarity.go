package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/salescast/timeseries"
)

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test for a unit root.
// The null hypothesis is that the series is non-stationary; it is rejected
// when the p-value is below 0.05. Returns nil when the regression cannot be
// estimated (too few points or a singular design, e.g. a constant series).
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	// delta_y_t = a + b*y_{t-1} + sum(g_i * delta_y_{t-i})
	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := mat.NewVecDense(nObs, nil)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y.SetVec(i, diff.Values[t])
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	coeffs, se, ok := olsRegression(x, y)
	if !ok || se[1] == 0 {
		return nil
	}

	tStat := coeffs[1] / se[1]
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		IsStationary: pValue < 0.05,
	}
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for level ("c")
// or trend ("ct") stationarity. The null hypothesis is stationarity.
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	residuals := make([]float64, n)
	if regression == "ct" {
		a, b := linearTrend(series.Values)
		for i, v := range series.Values {
			residuals[i] = v - a - b*float64(i)
		}
	} else {
		mean := series.Mean()
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	// Newey-West long-run variance with Bartlett weights
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq, cum := 0.0, 0.0
	for _, r := range residuals {
		cum += r
		etaSq += cum * cum
	}
	stat := etaSq / (float64(n) * float64(n) * s2)
	pValue := kpssPValue(stat, regression)

	return &KPSSResult{
		Statistic:    stat,
		PValue:       pValue,
		Lags:         nlags,
		IsStationary: pValue >= 0.05,
	}
}

// linearTrend fits y = a + b*t by least squares.
func linearTrend(values []float64) (a, b float64) {
	var sumT, sumY, sumTY, sumT2 float64
	for i, v := range values {
		t := float64(i)
		sumT += t
		sumY += v
		sumTY += t * v
		sumT2 += t * t
	}
	n := float64(len(values))
	b = (n*sumTY - sumT*sumY) / (n*sumT2 - sumT*sumT)
	a = (sumY - b*sumT) / n
	return a, b
}

// olsRegression returns coefficients and standard errors of y on x.
// ok is false when X'X is singular.
func olsRegression(x *mat.Dense, y *mat.VecDense) (coeffs, stdErrors []float64, ok bool) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, false
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, false
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	var fitted, resid mat.VecDense
	fitted.MulVec(x, &beta)
	resid.SubVec(y, &fitted)
	s2 := mat.Dot(&resid, &resid) / float64(n-k)

	coeffs = make([]float64, k)
	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
		stdErrors[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}
	return coeffs, stdErrors, true
}

// mackinnonPValue approximates the ADF p-value (constant, no trend) from
// asymptotic critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue interpolates the KPSS p-value from tabulated critical values.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
