package sarima

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/salescast/timeseries"
)

func seasonalSeries(n int, trend float64) *timeseries.Series {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal := 10 * math.Sin(2*math.Pi*float64(i)/12)
		values[i] = 100 + trend*float64(i) + seasonal + float64(i%5-2)/3
	}
	return timeseries.New(values)
}

func TestOrderString(t *testing.T) {
	tests := []struct {
		order Order
		want  string
	}{
		{Order{P: 1, D: 1, Q: 1}, "ARIMA(1,1,1)"},
		{Order{P: 1, D: 1, Q: 1, M: 12}, "ARIMA(1,1,1)"},
		{Order{P: 0, D: 1, Q: 1, SQ: 1, SD: 1, M: 12}, "ARIMA(0,1,1)(0,1,1)[12]"},
	}
	for _, tt := range tests {
		if got := tt.order.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFitValidation(t *testing.T) {
	series := seasonalSeries(60, 0)

	err := New(0, 0, 0, 1, 0, 0, 0).Fit(series)
	if !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}

	err = New(1, 0, 0, 1, 1, 1, 12).Fit(seasonalSeries(40, 0))
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	if err := NewARIMA(0, 1, 0).Fit(timeseries.New([]float64{1, 2, 4, 7})); err != nil {
		t.Errorf("null model should fit a short series, got %v", err)
	}
	if err := NewARIMA(0, 1, 0).Fit(timeseries.New([]float64{1})); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	if _, err := NewARIMA(1, 0, 0).Predict(3); !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}

func TestConstantSeriesPerfectFit(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 42
	}

	for _, model := range []*Model{NewARIMA(0, 0, 0), NewARIMA(1, 0, 1), NewARIMA(0, 1, 0)} {
		if err := model.Fit(timeseries.New(values)); err != nil {
			t.Fatalf("%s: fit failed: %v", model.Order, err)
		}
		if !math.IsInf(model.AIC, -1) {
			t.Errorf("%s: expected AIC -Inf for a perfect fit, got %f", model.Order, model.AIC)
		}
		forecasts, err := model.Predict(3)
		if err != nil {
			t.Fatalf("%s: predict failed: %v", model.Order, err)
		}
		for i, f := range forecasts {
			if f != 42 {
				t.Errorf("%s: forecast %d = %f, want 42", model.Order, i, f)
			}
		}
	}
}

func TestIntegrateTrend(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 5 + 2*float64(i)
	}

	model := NewARIMA(0, 1, 0)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	forecasts, err := model.Predict(3)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	for h, f := range forecasts {
		want := 5 + 2*float64(30+h)
		if math.Abs(f-want) > 1e-9 {
			t.Errorf("h=%d: got %f, want %f", h+1, f, want)
		}
	}

	level := model.LevelFittedValues()
	if !math.IsNaN(level[0]) {
		t.Errorf("first level fitted value should be NaN, got %f", level[0])
	}
	for i := 1; i < len(level); i++ {
		if math.Abs(level[i]-values[i]) > 1e-9 {
			t.Errorf("level fitted %d: got %f, want %f", i, level[i], values[i])
		}
	}
}

func TestIntegrateSecondDifference(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i * i)
	}

	model := NewARIMA(0, 2, 0)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	forecasts, err := model.Predict(2)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	for h, f := range forecasts {
		x := float64(30 + h)
		if math.Abs(f-x*x) > 1e-9 {
			t.Errorf("h=%d: got %f, want %f", h+1, f, x*x)
		}
	}
}

func TestIntegrateSeasonalDifference(t *testing.T) {
	pattern := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8}
	values := make([]float64, 48)
	for i := range values {
		values[i] = pattern[i%12]
	}

	model := New(0, 0, 0, 0, 1, 0, 12)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	forecasts, err := model.Predict(14)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	for h, f := range forecasts {
		if want := pattern[(48+h)%12]; math.Abs(f-want) > 1e-9 {
			t.Errorf("h=%d: got %f, want %f", h+1, f, want)
		}
	}
}

func TestPredictWithInterval(t *testing.T) {
	model := New(1, 0, 0, 1, 0, 0, 12)
	if err := model.Fit(seasonalSeries(96, 0)); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	forecasts, lower, upper, err := model.PredictWithInterval(12, 0.9)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if len(forecasts) != 12 || len(lower) != 12 || len(upper) != 12 {
		t.Fatal("unexpected lengths")
	}
	for i := range forecasts {
		if math.IsNaN(forecasts[i]) || math.IsInf(forecasts[i], 0) {
			t.Errorf("forecast %d is not finite", i)
		}
		if lower[i] > forecasts[i] || upper[i] < forecasts[i] {
			t.Errorf("interval %d does not contain the forecast", i)
		}
	}

	if _, _, _, err := model.PredictWithInterval(0, 0.9); !errors.Is(err, ErrInvalidSteps) {
		t.Errorf("expected ErrInvalidSteps, got %v", err)
	}
}

func TestSummaryAndResiduals(t *testing.T) {
	n := 60
	model := New(1, 0, 1, 1, 0, 1, 12)
	if err := model.Fit(seasonalSeries(n, 0)); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	summary := model.Summary()
	if summary == nil {
		t.Fatal("Summary should not be nil")
	}
	if summary.NObs != n {
		t.Errorf("Expected NObs=%d, got %d", n, summary.NObs)
	}
	if len(model.Residuals()) != n || len(model.FittedValues()) != n {
		t.Errorf("expected %d residuals and fitted values", n)
	}
	t.Logf("%s AIC=%.2f BIC=%.2f AR=%v SAR=%v", summary.Order, summary.AIC, summary.BIC,
		summary.ARCoeffs, summary.SARCoeffs)

	if NewARIMA(1, 0, 0).Summary() != nil {
		t.Error("unfitted Summary should be nil")
	}
}

func TestMultipleOrders(t *testing.T) {
	series := seasonalSeries(96, 0.2)

	tests := []Order{
		{P: 1, SP: 1, M: 12},
		{Q: 1, SQ: 1, M: 12},
		{P: 1, D: 1, SP: 1, SD: 1, M: 12},
		{P: 2, D: 1, Q: 1},
	}

	for _, o := range tests {
		t.Run(o.String(), func(t *testing.T) {
			model := NewWithOrder(o)
			if err := model.Fit(series); err != nil {
				t.Fatalf("fit failed: %v", err)
			}
			forecasts, err := model.Predict(6)
			if err != nil {
				t.Fatalf("predict failed: %v", err)
			}
			for i, f := range forecasts {
				if math.IsNaN(f) {
					t.Errorf("forecast %d is NaN", i)
				}
			}
			t.Logf("AIC: %.2f, Forecasts: %v", model.AIC, forecasts)
		})
	}
}

func TestYuleWalker(t *testing.T) {
	phi := yuleWalker([]float64{1, 0.5}, 1)
	if len(phi) != 1 || math.Abs(phi[0]-0.5) > 1e-12 {
		t.Errorf("AR(1): got %v", phi)
	}

	phi = yuleWalker([]float64{1, 0.5, 0.2}, 2)
	if len(phi) != 2 || math.Abs(phi[0]-0.4/0.75) > 1e-9 || math.Abs(phi[1]+0.05/0.75) > 1e-9 {
		t.Errorf("AR(2): got %v", phi)
	}

	if yuleWalker([]float64{1}, 2) != nil {
		t.Error("expected nil for too few autocorrelations")
	}
}
