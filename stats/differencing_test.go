package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/salescast/timeseries"
)

func TestNDiffs(t *testing.T) {
	n := 100

	if d := NDiffs(constantSeries(n, 4), 2, StationTestKPSS); d != 0 {
		t.Errorf("constant series should need no differencing, got %d", d)
	}

	trend := make([]float64, n)
	for i := 0; i < n; i++ {
		trend[i] = 100 + float64(i)*2 + float64((i*3)%7-3)*0.5
	}
	d := NDiffs(timeseries.New(trend), 2, StationTestKPSS)
	if d < 1 {
		t.Errorf("trending series should need differencing, got %d", d)
	}
	t.Logf("Trend series ndiffs: %d", d)

	if d := NDiffs(timeseries.New(trend), 2, StationTestADF); d < 1 {
		t.Errorf("ADF-only test should difference a trending series, got %d", d)
	}
}

func TestNSDiffs(t *testing.T) {
	n := 120
	seasonal := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = 100 + float64(i)*0.5 + 15*math.Sin(2*math.Pi*float64(i)/12)
	}

	if sd := NSDiffs(timeseries.New(seasonal), 12, 1); sd != 1 {
		t.Errorf("expected 1 seasonal difference, got %d", sd)
	}
	if sd := NSDiffs(constantSeries(n, 2), 12, 1); sd != 0 {
		t.Errorf("constant series should need no seasonal difference, got %d", sd)
	}
	if sd := NSDiffs(timeseries.New(seasonal[:18]), 12, 1); sd != 0 {
		t.Errorf("short series should need no seasonal difference, got %d", sd)
	}
}

func TestCalculateIC(t *testing.T) {
	tests := []struct {
		logLik  float64
		nObs    int
		nParams int
	}{
		{-50, 100, 3},
		{-120, 48, 5},
	}

	for _, tt := range tests {
		ic := CalculateIC(tt.logLik, tt.nObs, tt.nParams)
		k, n := float64(tt.nParams), float64(tt.nObs)

		if want := -2*tt.logLik + 2*k; math.Abs(ic.AIC-want) > 1e-10 {
			t.Errorf("AIC: got %f, want %f", ic.AIC, want)
		}
		if want := -2*tt.logLik + k*math.Log(n); math.Abs(ic.BIC-want) > 1e-10 {
			t.Errorf("BIC: got %f, want %f", ic.BIC, want)
		}
		if want := ic.AIC + 2*k*(k+1)/(n-k-1); math.Abs(ic.AICc-want) > 1e-10 {
			t.Errorf("AICc: got %f, want %f", ic.AICc, want)
		}
	}

	if ic := CalculateIC(-10, 5, 5); !math.IsInf(ic.AICc, 1) {
		t.Errorf("AICc should be +Inf when n-k-1 <= 0, got %f", ic.AICc)
	}

	perfect := CalculateIC(math.Inf(1), 24, 2)
	if !math.IsInf(perfect.AIC, -1) || !math.IsInf(perfect.BIC, -1) {
		t.Errorf("perfect fit should give -Inf criteria, got %+v", perfect)
	}
}

func TestGaussianLogLik(t *testing.T) {
	if ll := GaussianLogLik([]float64{0, 0}, 0); !math.IsInf(ll, 1) {
		t.Errorf("zero variance should give +Inf, got %f", ll)
	}

	resid := []float64{1, -1, 1, -1}
	want := -2*math.Log(2*math.Pi) - 2*math.Log(1.0) - 2
	if ll := GaussianLogLik(resid, 1); math.Abs(ll-want) > 1e-12 {
		t.Errorf("got %f, want %f", ll, want)
	}
}

func TestNanVariance(t *testing.T) {
	data := []float64{2, 4, math.NaN(), 4, 4, 5, 5, 7, math.NaN(), 9}
	if v := nanVariance(data); math.Abs(v-32.0/7.0) > 1e-12 {
		t.Errorf("got %f, want %f", v, 32.0/7.0)
	}
}
