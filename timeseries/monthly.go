package timeseries

import (
	"errors"
	"sort"
	"time"
)

// Point is a single timestamped observation.
type Point struct {
	Time  time.Time
	Value float64
}

// ErrNoPoints is returned when there is nothing to aggregate.
var ErrNoPoints = errors.New("no points to aggregate")

// MonthlySum buckets points by calendar month and sums each bucket.
// Months between the first and last observation without any point are
// present with value 0. Timestamps are month ends in UTC.
func MonthlySum(points []Point) (*Series, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]float64)
	first, last := points[0].Time, points[0].Time
	for _, p := range points {
		sums[key{p.Time.Year(), p.Time.Month()}] += p.Value
		if p.Time.Before(first) {
			first = p.Time
		}
		if p.Time.After(last) {
			last = p.Time
		}
	}

	start := MonthEnd(time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC))
	end := MonthEnd(time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC))

	var timestamps []time.Time
	var values []float64
	for t := start; !t.After(end); t = AddMonths(t, 1) {
		timestamps = append(timestamps, t)
		values = append(values, sums[key{t.Year(), t.Month()}])
	}

	return &Series{Timestamps: timestamps, Values: values}, nil
}

// MonthOfYearMean returns the mean value per calendar month across all
// years. Months with no points are omitted from the map.
func MonthOfYearMean(points []Point) map[time.Month]float64 {
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, p := range points {
		sums[p.Time.Month()] += p.Value
		counts[p.Time.Month()]++
	}
	out := make(map[time.Month]float64, len(sums))
	for m, s := range sums {
		out[m] = s / float64(counts[m])
	}
	return out
}

// SortPoints orders points by time, keeping the input order for ties.
func SortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
}
