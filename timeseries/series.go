// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when timestamps and values disagree in length.
	ErrLengthMismatch = errors.New("timestamps and values must have the same length")
	// ErrNotMonthly is returned when a series is not one point per calendar month.
	ErrNotMonthly = errors.New("series is not strictly monthly")
)

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a monthly series from values, starting at the end of January 2000.
func New(values []float64) *Series {
	start := MonthEnd(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = AddMonths(start, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	return s.lagged(1, s.Name+"_diff")
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagged(m, s.Name+"_seasonal_diff")
}

// lagged returns y_t - y_{t-k}, aligned to the later timestamps.
func (s *Series) lagged(k int, name string) *Series {
	if k <= 0 || len(s.Values) <= k {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-k)
	floats.SubTo(result, s.Values[k:], s.Values[:len(s.Values)-k])

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > k {
		copy(timestamps, s.Timestamps[k:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       name,
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, len(s.Values))
}

// Map returns a new series with fn applied to every value.
func (s *Series) Map(fn func(float64) float64, suffix string) *Series {
	out := s.Copy()
	for i, v := range out.Values {
		out.Values[i] = fn(v)
	}
	out.Name = s.Name + suffix
	return out
}

// Log1p applies log(1+x), the transform used on raw sales amounts.
func (s *Series) Log1p() *Series {
	return s.Map(math.Log1p, "_log1p")
}

// Expm1 inverts Log1p.
func (s *Series) Expm1() *Series {
	return s.Map(math.Expm1, "_expm1")
}

// Rolling returns the trailing moving average with the same length as s.
// The first window-1 values are NaN, matching a rolling(window).mean() view.
func (s *Series) Rolling(window int) *Series {
	out := &Series{
		Timestamps: append([]time.Time(nil), s.Timestamps...),
		Values:     make([]float64, len(s.Values)),
		Name:       fmt.Sprintf("%s_ma%d", s.Name, window),
	}
	if window <= 0 {
		for i := range out.Values {
			out.Values[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i, v := range s.Values {
		sum += v
		if i >= window {
			sum -= s.Values[i-window]
		}
		if i < window-1 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = sum / float64(window)
	}
	return out
}

// ValidateMonthly checks that timestamps advance by exactly one calendar month.
func (s *Series) ValidateMonthly() error {
	if len(s.Timestamps) != len(s.Values) {
		return ErrLengthMismatch
	}
	for i := 1; i < len(s.Timestamps); i++ {
		prev, cur := s.Timestamps[i-1], s.Timestamps[i]
		want := AddMonths(MonthEnd(prev), 1)
		if !sameMonth(cur, want) {
			return fmt.Errorf("%w: %s follows %s", ErrNotMonthly,
				cur.Format("2006-01"), prev.Format("2006-01"))
		}
	}
	return nil
}

// NextMonths returns the n month-end timestamps that follow the series.
func (s *Series) NextMonths(n int) []time.Time {
	if len(s.Timestamps) == 0 || n <= 0 {
		return nil
	}
	last := MonthEnd(s.Timestamps[len(s.Timestamps)-1])
	out := make([]time.Time, n)
	for i := range out {
		out[i] = AddMonths(last, i+1)
	}
	return out
}

// MonthEnd returns midnight on the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1)
}

// AddMonths returns the month end n months after the month of t.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthEnd(first.AddDate(0, n, 0))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
