// Package stats provides statistical tests and summaries for monthly sales
// series.
//
// # Stationarity
//
//	adf := stats.ADF(series, 0)       // H0: unit root
//	kpss := stats.KPSS(series, "c", 0) // H0: stationary
//
// ADF returns nil when its regression is singular, which is the case for a
// constant series. KPSS on a constant series has a statistic of 0.
//
// # Differencing
//
//	d := stats.NDiffs(series, 2, stats.StationTestKPSS)
//	D := stats.NSDiffs(series, 12, 1)
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 24)
//	pacf := stats.PACF(series, 24)
//	lags := stats.SignificantLags(pacf, stats.ACFBound(series.Len()))
//	dw := stats.DurbinWatson(residuals) // nil when all residuals are zero
//
// # Decomposition
//
//	decomp := stats.Decompose(series, 12, stats.Additive)
//	fs := stats.SeasonalStrength(series, 12)
//
// # Summaries and outliers
//
//	overview, err := stats.Describe(series.Values)
//	bounds, err := stats.NewIQRBounds(series.Values, stats.DefaultIQRMultiplier)
//	idx := bounds.Outliers(series.Values)
//
// Quartiles interpolate linearly at p*(n-1).
package stats
