package smoothing

import "fmt"

// MovingAverageForecast forecasts every step of the horizon as the mean of
// the last window observations.
func MovingAverageForecast(data []float64, window, h int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1, got %d", ErrInvalidParameter, window)
	}
	if err := checkHorizon(h); err != nil {
		return nil, err
	}
	if len(data) < window {
		return nil, fmt.Errorf("%w: moving average of %d needs %d points, got %d",
			ErrInsufficientData, window, window, len(data))
	}

	sum := 0.0
	for _, v := range data[len(data)-window:] {
		sum += v
	}
	return repeat(sum/float64(window), h), nil
}
