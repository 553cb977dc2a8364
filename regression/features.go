package regression

import (
	"errors"
	"fmt"
)

// DefaultLags is the number of lag features used by the pipeline.
const DefaultLags = 2

// ErrInsufficientData is returned when a series yields no complete lag row.
var ErrInsufficientData = errors.New("insufficient data for lag features")

// Dataset is a design matrix of lag features and its targets. Row i
// predicts the series value at position Index[i] from the lags values
// before it, most recent first.
type Dataset struct {
	X     [][]float64
	Y     []float64
	Index []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Y) }

// LagFeatures builds lag1..lagK columns. Rows with a missing lag are
// dropped, so the dataset starts at position lags.
func LagFeatures(values []float64, lags int) (*Dataset, error) {
	if lags < 1 {
		return nil, fmt.Errorf("lags must be at least 1, got %d", lags)
	}
	if len(values) <= lags {
		return nil, fmt.Errorf("%w: %d values for %d lags", ErrInsufficientData, len(values), lags)
	}

	n := len(values) - lags
	d := &Dataset{
		X:     make([][]float64, n),
		Y:     make([]float64, n),
		Index: make([]int, n),
	}
	for i := 0; i < n; i++ {
		t := i + lags
		d.X[i] = lagRow(values[:t], lags)
		d.Y[i] = values[t]
		d.Index[i] = t
	}
	return d, nil
}

// lagRow returns the last lags values of history, most recent first.
func lagRow(history []float64, lags int) []float64 {
	row := make([]float64, lags)
	for k := 1; k <= lags; k++ {
		row[k-1] = history[len(history)-k]
	}
	return row
}

// Split cuts the dataset chronologically. The first int(frac*n) rows go
// to train and the rest to test.
func (d *Dataset) Split(frac float64) (train, test *Dataset) {
	cut := int(frac * float64(d.Len()))
	cut = max(0, min(cut, d.Len()))
	return d.slice(0, cut), d.slice(cut, d.Len())
}

func (d *Dataset) slice(i, j int) *Dataset {
	return &Dataset{X: d.X[i:j], Y: d.Y[i:j], Index: d.Index[i:j]}
}
