package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/salescast/stats"
	"github.com/sartorproj/salescast/timeseries"
)

var (
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNotFitted is returned when predicting from an unfitted model.
	ErrNotFitted = errors.New("model must be fitted before prediction")
	// ErrInvalidOrder is returned for negative orders or a seasonal part without a period.
	ErrInvalidOrder = errors.New("invalid model order")
	// ErrInvalidSteps is returned when fewer than one step is requested.
	ErrInvalidSteps = errors.New("steps must be at least 1")
)

// Order represents a model order (p, d, q) x (P, D, Q, m). With M = 0 and
// no seasonal terms the model is a plain ARIMA(p, d, q).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (12 for monthly data)
}

// Seasonal reports whether the order has any seasonal term.
func (o Order) Seasonal() bool {
	return o.M > 1 && (o.SP > 0 || o.SD > 0 || o.SQ > 0)
}

// NumParams is the number of estimated coefficients including the intercept.
func (o Order) NumParams() int {
	return o.P + o.Q + o.SP + o.SQ + 1
}

// MinLength is the shortest series the order can be fitted on. Orders with
// ARMA terms need 20 observations beyond those terms; the null model only
// needs one observation left after differencing.
func (o Order) MinLength() int {
	lost := o.D + o.SD*o.M
	if o.P == 0 && o.Q == 0 && o.SP == 0 && o.SQ == 0 {
		return lost + 1
	}
	return o.P + o.Q + (o.SP+o.SQ)*o.M + lost + 20
}

// Validate checks the order for negative terms and a missing period.
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 || o.M < 0 {
		return fmt.Errorf("%w: negative term in %s", ErrInvalidOrder, o)
	}
	if (o.SP > 0 || o.SD > 0 || o.SQ > 0) && o.M < 2 {
		return fmt.Errorf("%w: seasonal terms need a period of at least 2", ErrInvalidOrder)
	}
	return nil
}

func (o Order) String() string {
	if !o.Seasonal() {
		return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	}
	return fmt.Sprintf("ARIMA(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// Model represents a seasonal ARIMA model fitted by conditional sum of squares.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	fitted     bool
	data       *timeseries.Series
	stages     []stage
	residuals  []float64
	fittedVals []float64
}

// stage is one differencing level: the values before the difference was
// taken and the lag it was taken at.
type stage struct {
	values []float64
	lag    int
}

// New creates a model with the given seasonal order.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return NewWithOrder(Order{P: p, D: d, Q: q, SP: sp, SD: sd, SQ: sq, M: m})
}

// NewARIMA creates a non-seasonal ARIMA(p, d, q) model.
func NewARIMA(p, d, q int) *Model {
	return NewWithOrder(Order{P: p, D: d, Q: q})
}

// NewWithOrder creates a model from an Order.
func NewWithOrder(o Order) *Model {
	return &Model{
		Order:     o,
		ARCoeffs:  make([]float64, max(o.P, 0)),
		MACoeffs:  make([]float64, max(o.Q, 0)),
		SARCoeffs: make([]float64, max(o.SP, 0)),
		SMACoeffs: make([]float64, max(o.SQ, 0)),
	}
}

// Fit fits the model to the series. Non-seasonal differences are taken
// first, then seasonal ones.
func (m *Model) Fit(series *timeseries.Series) error {
	if err := m.Order.Validate(); err != nil {
		return err
	}
	if series.Len() < m.Order.MinLength() {
		return fmt.Errorf("%w: %s needs %d points, got %d",
			ErrInsufficientData, m.Order, m.Order.MinLength(), series.Len())
	}

	m.data = series
	m.stages = m.stages[:0]

	current := series
	for i := 0; i < m.Order.D; i++ {
		m.stages = append(m.stages, stage{values: current.Values, lag: 1})
		current = current.Diff()
	}
	for i := 0; i < m.Order.SD; i++ {
		m.stages = append(m.stages, stage{values: current.Values, lag: m.Order.M})
		current = current.SeasonalDiff(m.Order.M)
	}
	if current.Len() == 0 {
		return fmt.Errorf("%w: differencing left no observations", ErrInsufficientData)
	}

	m.initCoeffs(current)
	m.optimizeCSS(current.Values)
	m.calculateIC()

	m.fitted = true
	return nil
}

// initCoeffs seeds AR terms from Yule-Walker, seasonal AR terms from the
// seasonal autocorrelations and MA terms with a small constant.
func (m *Model) initCoeffs(diff *timeseries.Series) {
	m.Intercept = diff.Mean()

	if m.Order.P > 0 {
		if acf := stats.ACF(diff, m.Order.P); acf != nil {
			if phi := yuleWalker(acf, m.Order.P); phi != nil {
				for i := range phi {
					m.ARCoeffs[i] = clamp(phi[i], -0.99, 0.99)
				}
			}
		}
	}

	if m.Order.SP > 0 {
		if acf := stats.ACF(diff, m.Order.SP*m.Order.M); acf != nil {
			for i := range m.SARCoeffs {
				if idx := (i + 1) * m.Order.M; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}

	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}
}

// predictAt is the one-step prediction for index t given the observed
// (or already forecast) values y and the residuals up to t.
func (m *Model) predictAt(y, resid []float64, t int) float64 {
	period := m.Order.M
	pred := m.Intercept

	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * resid[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SMACoeffs[i] * resid[t-lag]
		}
	}
	return pred
}

// filter runs the recursion from start and returns residuals, predictions
// and the sum of squared residuals.
func (m *Model) filter(y []float64, start int) (resid, pred []float64, sse float64) {
	n := len(y)
	resid = make([]float64, n)
	pred = make([]float64, n)
	for t := start; t < n; t++ {
		pred[t] = m.predictAt(y, resid, t)
		resid[t] = y[t] - pred[t]
		sse += resid[t] * resid[t]
	}
	return resid, pred, sse
}

// optimizeCSS minimizes the conditional sum of squares by gradient descent
// with momentum, keeping the best coefficients seen.
func (m *Model) optimizeCSS(y []float64) {
	n := len(y)
	p, q := m.Order.P, m.Order.Q
	sp, sq := m.Order.SP, m.Order.SQ
	period := m.Order.M

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	learningRate := 0.005

	arMom := make([]float64, p)
	maMom := make([]float64, q)
	sarMom := make([]float64, sp)
	smaMom := make([]float64, sq)

	startIdx := max(p, q, sp*period, sq*period)
	if startIdx >= n-10 {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		resid, _, sse := m.filter(y, startIdx)

		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > 20 || sse == 0 {
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * resid[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					sarGrad[i] -= 2 * resid[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * resid[t] * resid[t-i-1]
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					smaGrad[i] -= 2 * resid[t] * resid[t-lag]
				}
			}
		}

		step := func(coeffs, mom, grad []float64) {
			for i := range coeffs {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coeffs[i] = clamp(coeffs[i]-mom[i], -0.99, 0.99)
			}
		}
		step(m.ARCoeffs, arMom, arGrad)
		step(m.SARCoeffs, sarMom, sarGrad)
		step(m.MACoeffs, maMom, maGrad)
		step(m.SMACoeffs, smaMom, smaGrad)

		learningRate *= decay

		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)

	m.residuals, m.fittedVals, _ = m.filter(y, 0)

	sse := 0.0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
	}
	count := n - startIdx
	if k := m.Order.NumParams(); count > k {
		m.Variance = sse / float64(count-k)
	} else {
		m.Variance = sse / float64(count)
	}
}

// calculateIC fills the log-likelihood and information criteria. A zero
// residual variance is a perfect fit: LogLik is +Inf and the criteria -Inf.
func (m *Model) calculateIC() {
	ic := stats.CalculateIC(
		stats.GaussianLogLik(m.residuals, m.Variance),
		len(m.residuals),
		m.Order.NumParams(),
	)
	m.LogLik = ic.LogLik
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval generates forecasts with prediction intervals at the
// given confidence level (0.95 when out of range).
func (m *Model) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, nil, nil, ErrInvalidSteps
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	diff := m.differenced()
	n := len(diff)

	extY := make([]float64, n+steps)
	copy(extY, diff)
	extResid := make([]float64, n+steps)
	copy(extResid, m.residuals)

	// future shocks are zero
	for t := n; t < n+steps; t++ {
		extY[t] = m.predictAt(extY, extResid, t)
	}

	forecasts = m.integrate(extY[n:])

	z := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	period := m.Order.M
	for h := 0; h < steps; h++ {
		growth := 1.0
		if m.Order.D > 0 {
			growth *= math.Sqrt(float64(h + 1))
		}
		if m.Order.SD > 0 && period > 0 {
			growth *= math.Sqrt(float64(h/period + 1))
		}
		se := math.Sqrt(m.Variance) * growth
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}

	return forecasts, lower, upper, nil
}

// differenced returns the series after all differencing stages.
func (m *Model) differenced() []float64 {
	if len(m.stages) == 0 {
		return m.data.Values
	}
	last := m.stages[len(m.stages)-1]
	out := make([]float64, len(last.values)-last.lag)
	for i := range out {
		out[i] = last.values[i+last.lag] - last.values[i]
	}
	return out
}

// integrate undoes the differencing stages in reverse order, extending each
// level with the forecasts of the level below it.
func (m *Model) integrate(forecasts []float64) []float64 {
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for s := len(m.stages) - 1; s >= 0; s-- {
		level := m.stages[s]
		n := len(level.values)
		ext := make([]float64, n+len(result))
		copy(ext, level.values)
		for j, v := range result {
			ext[n+j] = v + ext[n+j-level.lag]
		}
		result = ext[n:]
	}
	return result
}

// Residuals returns the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the in-sample one-step predictions on the
// differenced scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// LevelFittedValues returns in-sample one-step predictions on the original
// scale, aligned with the fitted series. Leading points lost to
// differencing are NaN.
func (m *Model) LevelFittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	original := m.data.Values
	out := make([]float64, len(original))
	lost := len(original) - len(m.fittedVals)
	for i := 0; i < lost; i++ {
		out[i] = math.NaN()
	}
	// y_t = diff_t + (y_t - diff_t), and the second term only depends on
	// observed history, so adding it to the predicted difference gives the
	// level prediction.
	diff := m.differenced()
	for t, f := range m.fittedVals {
		idx := t + lost
		out[idx] = f + (original[idx] - diff[t])
	}
	return out
}

// Summary represents a model summary.
type Summary struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	LjungBox  *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model, or nil if unfitted.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	lb := stats.LjungBox(timeseries.New(m.residuals), 10, m.Order.NumParams()-1)

	return &Summary{
		Order:     m.Order,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		NObs:      m.data.Len(),
		LjungBox:  lb,
	}
}

// yuleWalker solves the Toeplitz system R*phi = r for AR coefficients.
// Returns nil when the system is singular.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	r := mat.NewSymDense(order, nil)
	rhs := mat.NewVecDense(order, nil)
	for i := 0; i < order; i++ {
		rhs.SetVec(i, acf[i+1])
		for j := i; j < order; j++ {
			r.SetSym(i, j, acf[j-i])
		}
	}

	var phi mat.VecDense
	if err := phi.SolveVec(r, rhs); err != nil {
		return nil
	}
	return phi.RawVector().Data
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
