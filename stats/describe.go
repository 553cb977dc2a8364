package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned when a summary is requested for no data.
var ErrEmpty = errors.New("no values to summarize")

// Overview is a descriptive summary of a series.
type Overview struct {
	Count    int
	Mean     float64
	Std      float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Variance float64
	IQR      float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
}

// Describe computes the descriptive overview of values.
func Describe(values []float64) (*Overview, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1, median, q3 := Quartiles(sorted)
	o := &Overview{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Min:    sorted[0],
		Q1:     q1,
		Median: median,
		Q3:     q3,
		Max:    sorted[len(sorted)-1],
		IQR:    q3 - q1,
	}

	if len(values) > 1 {
		o.Variance = stat.Variance(values, nil)
		o.Std = math.Sqrt(o.Variance)
	}
	if len(values) > 2 && o.Variance > 0 {
		o.Skewness = stat.Skew(values, nil)
	} else {
		o.Skewness = math.NaN()
	}
	if len(values) > 3 && o.Variance > 0 {
		o.Kurtosis = stat.ExKurtosis(values, nil)
	} else {
		o.Kurtosis = math.NaN()
	}

	return o, nil
}

// Quartiles returns the 25th, 50th and 75th percentiles of sorted data
// using linear interpolation between order statistics.
func Quartiles(sorted []float64) (q1, median, q3 float64) {
	return percentile(sorted, 0.25), percentile(sorted, 0.5), percentile(sorted, 0.75)
}

// percentile interpolates at position p*(n-1), the convention of
// spreadsheet and dataframe tooling. gonum's stat.Quantile uses a
// different plotting position, which would move the IQR outlier bounds.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
