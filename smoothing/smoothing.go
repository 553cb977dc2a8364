package smoothing

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a method has too few observations.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNotFitted is returned when forecasting from an unfitted model.
	ErrNotFitted = errors.New("model not fitted: call Fit() first")
	// ErrInvalidHorizon is returned for a horizon below one.
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
	// ErrInvalidParameter is returned for a smoothing parameter outside (0, 1].
	ErrInvalidParameter = errors.New("invalid smoothing parameter")
)

func checkHorizon(h int) error {
	if h < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidHorizon, h)
	}
	return nil
}

func repeat(v float64, h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = v
	}
	return out
}
