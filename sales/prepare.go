package sales

import (
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/salescast/stats"
	"github.com/sartorproj/salescast/timeseries"
)

// SeasonalPeriod is the yearly cycle of a monthly series.
const SeasonalPeriod = 12

// Monthly sums log1p(sales) per calendar month. Months without orders are
// present with value 0.
func Monthly(txs []Transaction) (*timeseries.Series, error) {
	points, err := logPoints(txs)
	if err != nil {
		return nil, err
	}
	series, err := timeseries.MonthlySum(points)
	if err != nil {
		return nil, err
	}
	series.Name = "sales"
	return series, nil
}

// logPoints returns log1p(sales) per transaction in date order.
func logPoints(txs []Transaction) ([]timeseries.Point, error) {
	points := make([]timeseries.Point, len(txs))
	for i, tx := range txs {
		if tx.Sales <= -1 {
			return nil, fmt.Errorf("transaction %d on %s: sales %v has no log1p",
				i, tx.Date.Format(time.DateOnly), tx.Sales)
		}
		points[i] = timeseries.Point{Time: tx.Date, Value: math.Log1p(tx.Sales)}
	}
	timeseries.SortPoints(points)
	return points, nil
}

// Outlier is a month whose value fell outside the IQR fences.
type Outlier struct {
	Time  time.Time
	Value float64
}

// Cleaning is the outcome of Clean.
type Cleaning struct {
	Series   *timeseries.Series
	Outliers []Outlier
	Bounds   *stats.IQRBounds
	// Mean of the uncleaned series, used as the replacement value.
	Mean float64
}

// Clean replaces values outside [Q1-k*IQR, Q3+k*IQR] with the mean of the
// uncleaned series. The input is not modified.
func Clean(series *timeseries.Series, k float64) (*Cleaning, error) {
	bounds, err := stats.NewIQRBounds(series.Values, k)
	if err != nil {
		return nil, err
	}

	cleaned := series.Copy()
	mean := series.Mean()
	res := &Cleaning{Series: cleaned, Bounds: bounds, Mean: mean}
	for _, i := range bounds.Outliers(series.Values) {
		res.Outliers = append(res.Outliers, Outlier{Time: series.Timestamps[i], Value: series.Values[i]})
		cleaned.Values[i] = mean
	}
	return res, nil
}

// MonthOfYear returns the mean log1p(sales) per calendar month over all
// transactions, so a month with more orders weighs more.
func MonthOfYear(txs []Transaction) (map[time.Month]float64, error) {
	points, err := logPoints(txs)
	if err != nil {
		return nil, err
	}
	return timeseries.MonthOfYearMean(points), nil
}

// Prepared bundles everything derived from a transaction file.
type Prepared struct {
	Raw         *timeseries.Series
	Cleaning    *Cleaning
	Overview    *stats.Overview
	// MonthOfYear is the per-transaction mean by calendar month.
	MonthOfYear map[time.Month]float64
	// Decomposition is nil when the series spans fewer than two years.
	Decomposition *stats.DecompositionResult
}

// Series returns the cleaned monthly series.
func (p *Prepared) Series() *timeseries.Series {
	return p.Cleaning.Series
}

// Prepare aggregates, cleans and summarizes transactions. k is the IQR
// multiplier; non-positive uses stats.DefaultIQRMultiplier.
func Prepare(txs []Transaction, k float64) (*Prepared, error) {
	raw, err := Monthly(txs)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregation: %w", err)
	}
	cleaning, err := Clean(raw, k)
	if err != nil {
		return nil, fmt.Errorf("outlier cleaning: %w", err)
	}
	overview, err := stats.Describe(cleaning.Series.Values)
	if err != nil {
		return nil, err
	}
	monthOfYear, err := MonthOfYear(txs)
	if err != nil {
		return nil, err
	}

	return &Prepared{
		Raw:           raw,
		Cleaning:      cleaning,
		Overview:      overview,
		MonthOfYear:   monthOfYear,
		Decomposition: stats.Decompose(cleaning.Series, SeasonalPeriod, stats.Additive),
	}, nil
}
