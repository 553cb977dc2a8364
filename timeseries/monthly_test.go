package timeseries

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlySum(t *testing.T) {
	points := []Point{
		{Time: day(2020, time.January, 3), Value: 1},
		{Time: day(2020, time.January, 28), Value: 2},
		{Time: day(2020, time.April, 1), Value: 5},
		{Time: day(2020, time.February, 14), Value: 4},
	}

	s, err := MonthlySum(points)
	if err != nil {
		t.Fatalf("MonthlySum failed: %v", err)
	}

	// Jan, Feb, Mar (gap), Apr
	expected := []float64{3, 4, 0, 5}
	if s.Len() != len(expected) {
		t.Fatalf("Expected %d months, got %d", len(expected), s.Len())
	}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Month %d: expected %f, got %f", i, v, s.Values[i])
		}
	}
	if !s.Timestamps[2].Equal(day(2020, time.March, 31)) {
		t.Errorf("Gap month should be stamped 2020-03-31, got %s", s.Timestamps[2])
	}
	if err := s.ValidateMonthly(); err != nil {
		t.Errorf("Aggregated series should be monthly: %v", err)
	}
}

func TestMonthlySumEmpty(t *testing.T) {
	if _, err := MonthlySum(nil); !errors.Is(err, ErrNoPoints) {
		t.Errorf("Expected ErrNoPoints, got %v", err)
	}
}

func TestMonthOfYearMean(t *testing.T) {
	points := []Point{
		{Time: day(2019, time.March, 2), Value: 2},
		{Time: day(2020, time.March, 9), Value: 4},
		{Time: day(2020, time.July, 9), Value: 7},
	}

	means := MonthOfYearMean(points)
	if means[time.March] != 3 {
		t.Errorf("Expected March mean 3, got %f", means[time.March])
	}
	if means[time.July] != 7 {
		t.Errorf("Expected July mean 7, got %f", means[time.July])
	}
	if _, ok := means[time.January]; ok {
		t.Error("Months without points should be absent")
	}
}

func TestSortPoints(t *testing.T) {
	points := []Point{
		{Time: day(2020, time.May, 1), Value: 1},
		{Time: day(2020, time.January, 1), Value: 2},
		{Time: day(2020, time.March, 1), Value: 3},
	}
	SortPoints(points)

	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			t.Fatalf("Points not sorted at %d", i)
		}
	}
}
