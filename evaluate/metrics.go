package evaluate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyWindow is returned when a metric is computed over no values.
	ErrEmptyWindow = errors.New("empty evaluation window")
	// ErrLengthMismatch is returned when actual and forecast lengths differ.
	ErrLengthMismatch = errors.New("actual and forecast lengths differ")
	// ErrZeroActual is returned by MAPE when an actual value is exactly 0.
	ErrZeroActual = errors.New("MAPE undefined for a zero actual value")
)

func checkWindows(actual, forecast []float64) error {
	if len(actual) == 0 {
		return ErrEmptyWindow
	}
	if len(actual) != len(forecast) {
		return fmt.Errorf("%w: %d actual, %d forecast", ErrLengthMismatch, len(actual), len(forecast))
	}
	return nil
}

// MAE is the mean absolute error.
func MAE(actual, forecast []float64) (float64, error) {
	if err := checkWindows(actual, forecast); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - forecast[i])
	}
	return sum / float64(len(actual)), nil
}

// RMSE is the root mean squared error.
func RMSE(actual, forecast []float64) (float64, error) {
	if err := checkWindows(actual, forecast); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - forecast[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual))), nil
}

// MAPE is the mean absolute percentage error, in percent.
func MAPE(actual, forecast []float64) (float64, error) {
	if err := checkWindows(actual, forecast); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range actual {
		if actual[i] == 0 {
			return 0, fmt.Errorf("%w at index %d", ErrZeroActual, i)
		}
		sum += math.Abs((actual[i] - forecast[i]) / actual[i])
	}
	return sum / float64(len(actual)) * 100, nil
}
