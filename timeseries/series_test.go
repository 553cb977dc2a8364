package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if err := s.ValidateMonthly(); err != nil {
		t.Errorf("New should produce a monthly series: %v", err)
	}
	if got := s.Timestamps[1]; got.Month() != time.February || got.Day() != 29 {
		t.Errorf("Expected 2000-02-29, got %s", got.Format("2006-01-02"))
	}
}

func TestNewWithTimestampsMismatch(t *testing.T) {
	_, err := NewWithTimestamps([]time.Time{time.Now()}, []float64{1, 2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVarianceAndStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571

	if result := s.Variance(); math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, result)
	}
	if result := s.Std(); math.Abs(result-math.Sqrt(expected)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(expected), result)
	}
}

func TestMinMaxMedian(t *testing.T) {
	s := New([]float64{3, 1, 4, 1, 5, 9, 2, 6})

	if s.Min() != 1 {
		t.Errorf("Expected min 1, got %f", s.Min())
	}
	if s.Max() != 9 {
		t.Errorf("Expected max 9, got %f", s.Max())
	}
	if s.Median() != 3.5 {
		t.Errorf("Expected median 3.5, got %f", s.Median())
	}

	empty := New(nil)
	if !math.IsNaN(empty.Min()) || !math.IsNaN(empty.Max()) || !math.IsNaN(empty.Median()) {
		t.Error("Empty series should return NaN for min, max and median")
	}
}

func TestDiff(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15})
	d := s.Diff()

	expected := []float64{2, 3, 4, 5}
	if d.Len() != len(expected) {
		t.Fatalf("Expected length %d, got %d", len(expected), d.Len())
	}
	for i, v := range expected {
		if d.Values[i] != v {
			t.Errorf("Index %d: expected %f, got %f", i, v, d.Values[i])
		}
	}
	if !d.Timestamps[0].Equal(s.Timestamps[1]) {
		t.Error("Differenced series should keep the later timestamps")
	}
}

func TestSeasonalDiff(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i%12) + float64(i/12)*10
	}
	d := New(values).SeasonalDiff(12)

	if d.Len() != 12 {
		t.Fatalf("Expected length 12, got %d", d.Len())
	}
	for i, v := range d.Values {
		if v != 10 {
			t.Errorf("Index %d: expected 10, got %f", i, v)
		}
	}

	if New([]float64{1, 2}).SeasonalDiff(12).Len() != 0 {
		t.Error("Seasonal diff of a short series should be empty")
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	sub := s.Slice(1, 4)
	if sub.Len() != 3 || sub.Values[0] != 2 || sub.Values[2] != 4 {
		t.Errorf("Unexpected slice: %v", sub.Values)
	}

	sub.Values[0] = 100
	if s.Values[1] != 2 {
		t.Error("Slice should not share storage with the original")
	}

	if s.Slice(-5, 100).Len() != 5 {
		t.Error("Out of range bounds should be clamped")
	}
	if s.Slice(3, 2).Len() != 0 {
		t.Error("Inverted bounds should give an empty series")
	}
}

func TestLog1pRoundTrip(t *testing.T) {
	s := New([]float64{0, 1, 10, 1000})
	back := s.Log1p().Expm1()

	for i, v := range s.Values {
		if math.Abs(back.Values[i]-v) > 1e-9 {
			t.Errorf("Index %d: expected %f, got %f", i, v, back.Values[i])
		}
	}
	if s.Log1p().Values[0] != 0 {
		t.Error("log1p(0) should be 0")
	}
}

func TestRolling(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	ma := s.Rolling(3)

	if ma.Len() != s.Len() {
		t.Fatalf("Rolling should keep the series length, got %d", ma.Len())
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(ma.Values[i]) {
			t.Errorf("Index %d should be NaN, got %f", i, ma.Values[i])
		}
	}
	expected := []float64{2, 3, 4}
	for i, v := range expected {
		if math.Abs(ma.Values[i+2]-v) > 1e-12 {
			t.Errorf("Index %d: expected %f, got %f", i+2, v, ma.Values[i+2])
		}
	}

	all := s.Rolling(6)
	for i, v := range all.Values {
		if !math.IsNaN(v) {
			t.Errorf("Window larger than series: index %d should be NaN", i)
		}
	}
}

func TestValidateMonthly(t *testing.T) {
	jan := time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2020, time.April, 30, 0, 0, 0, 0, time.UTC)

	ok, _ := NewWithTimestamps([]time.Time{jan, feb}, []float64{1, 2})
	if err := ok.ValidateMonthly(); err != nil {
		t.Errorf("Expected valid series, got %v", err)
	}

	gap, _ := NewWithTimestamps([]time.Time{jan, apr}, []float64{1, 2})
	if err := gap.ValidateMonthly(); !errors.Is(err, ErrNotMonthly) {
		t.Errorf("Expected ErrNotMonthly for a gap, got %v", err)
	}

	dup, _ := NewWithTimestamps([]time.Time{jan, jan}, []float64{1, 2})
	if err := dup.ValidateMonthly(); !errors.Is(err, ErrNotMonthly) {
		t.Errorf("Expected ErrNotMonthly for a duplicate month, got %v", err)
	}
}

func TestNextMonths(t *testing.T) {
	s := New([]float64{1, 2, 3})
	next := s.NextMonths(2)

	if len(next) != 2 {
		t.Fatalf("Expected 2 timestamps, got %d", len(next))
	}
	if next[0].Month() != time.April || next[0].Day() != 30 {
		t.Errorf("Expected 2000-04-30, got %s", next[0].Format("2006-01-02"))
	}
	if next[1].Month() != time.May || next[1].Day() != 31 {
		t.Errorf("Expected 2000-05-31, got %s", next[1].Format("2006-01-02"))
	}
}
