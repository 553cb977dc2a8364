package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature and divides by its population
// standard deviation. A feature with zero deviation keeps scale 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit learns per-column mean and scale from X.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: no rows")
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i, row := range X {
			if len(row) != cols {
				return fmt.Errorf("scaler: row %d has %d features, want %d", i, len(row), cols)
			}
			col[i] = row[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return nil
}

// Transform returns a scaled copy of X.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("scaler: row %d has %d features, want %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
