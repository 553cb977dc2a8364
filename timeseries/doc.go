// Package timeseries provides time series data structures and utilities.
//
// A Series is an ordered set of (timestamp, value) pairs. Sales data is
// handled as a monthly series: one point per calendar month, stamped at the
// month end, with gap months present as zero.
//
// # Creating a Series
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values) // month ends from January 2000
//
// # Monthly Aggregation
//
// Sum transaction-level points per calendar month:
//
//	points := []timeseries.Point{{Time: t1, Value: 12.5}, {Time: t2, Value: 3}}
//	monthly, err := timeseries.MonthlySum(points)
//	if err := monthly.ValidateMonthly(); err != nil {
//	    // duplicate or missing months
//	}
//
// # Transformations
//
//	diff := series.Diff()            // First difference
//	sdiff := series.SeasonalDiff(12) // Seasonal difference
//	logged := series.Log1p()         // log(1+x)
//	ma := series.Rolling(3)          // Trailing mean, NaN until the window fills
//
// # CSV
//
// Prepared series round-trip through ds,y files:
//
//	err := timeseries.SaveCSV(series, "monthly.csv")
//	series, err := timeseries.LoadCSV("monthly.csv", nil)
package timeseries
