package smoothing

import "fmt"

// SES is simple exponential smoothing with a fixed smoothing level.
type SES struct {
	Alpha float64

	level  float64
	fitted []float64
	ok     bool
}

// NewSES creates a simple exponential smoothing model.
func NewSES(alpha float64) *SES {
	return &SES{Alpha: alpha}
}

// Fit runs the recursion level_t = level_{t-1} + alpha*(y_t - level_{t-1})
// starting from level_0 = y_0.
func (s *SES) Fit(data []float64) error {
	if s.Alpha <= 0 || s.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1], got %v", ErrInvalidParameter, s.Alpha)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: simple exponential smoothing needs at least 1 point", ErrInsufficientData)
	}

	s.fitted = make([]float64, len(data))
	level := data[0]
	for t, y := range data {
		s.fitted[t] = level
		level += s.Alpha * (y - level)
	}
	s.level = level
	s.ok = true
	return nil
}

// Predict repeats the final level h times.
func (s *SES) Predict(h int) ([]float64, error) {
	if !s.ok {
		return nil, ErrNotFitted
	}
	if err := checkHorizon(h); err != nil {
		return nil, err
	}
	return repeat(s.level, h), nil
}

// FittedValues returns the one-step-ahead in-sample predictions.
func (s *SES) FittedValues() []float64 {
	out := make([]float64, len(s.fitted))
	copy(out, s.fitted)
	return out
}

// Level returns the final smoothed level.
func (s *SES) Level() float64 { return s.level }
