package autoarima

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sartorproj/salescast/sarima"
	"github.com/sartorproj/salescast/stats"
	"github.com/sartorproj/salescast/timeseries"
)

// Information criteria accepted in Config.Criterion.
const (
	CriterionAIC  = "aic"
	CriterionAICc = "aicc"
	CriterionBIC  = "bic"
)

// Seasonal differencing tests accepted in Config.SeasonalTest.
const (
	SeasonalTestACF      = "acf"
	SeasonalTestStrength = "strength"
)

// ErrNoModel is returned when no candidate order could be fitted.
var ErrNoModel = errors.New("no candidate model could be fitted")

// Config holds configuration for auto ARIMA search.
type Config struct {
	MaxP         int    // Maximum AR order (default: 5)
	MaxD         int    // Maximum differencing order (default: 2)
	MaxQ         int    // Maximum MA order (default: 5)
	MaxSP        int    // Maximum seasonal AR order (default: 2)
	MaxSD        int    // Maximum seasonal differencing order (default: 1)
	MaxSQ        int    // Maximum seasonal MA order (default: 2)
	Seasonal     bool   // Whether to consider seasonal models
	SeasonalM    int    // Seasonal period (required if Seasonal=true)
	Stepwise     bool   // Use stepwise search instead of exhaustive
	Criterion    string // "aic", "aicc" or "bic" (default: "aic")
	StationTest  string // "adf" or "kpss" (default: "kpss")
	SeasonalTest string // "acf" or "strength" (default: "acf")
	Trace        bool   // Log every candidate at info level

	// Logger receives the search trace. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default auto ARIMA configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:         5,
		MaxD:         2,
		MaxQ:         5,
		MaxSP:        2,
		MaxSD:        1,
		MaxSQ:        2,
		Stepwise:     true,
		Criterion:    CriterionAIC,
		StationTest:  stats.StationTestKPSS,
		SeasonalTest: SeasonalTestACF,
	}
}

// SeasonalConfig returns DefaultConfig with seasonal search at period m.
func SeasonalConfig(m int) *Config {
	c := DefaultConfig()
	c.Seasonal = true
	c.SeasonalM = m
	return c
}

// Result represents the result of auto ARIMA model selection.
type Result struct {
	Model *sarima.Model
	Order sarima.Order

	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	Criterion float64

	ModelsEvaluated int
}

// IsSeasonal reports whether the selected order has seasonal terms.
func (r *Result) IsSeasonal() bool {
	return r.Order.Seasonal()
}

// AutoARIMA selects the order minimizing the configured information
// criterion. The seasonal difference D is chosen first and the regular
// difference d on the seasonally differenced series. The search is
// deterministic: identical input always selects the same order.
func AutoARIMA(series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	s := &searcher{
		series: series,
		config: config,
		log:    config.Logger,
		tried:  make(map[sarima.Order]*candidate),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	seasonal := config.Seasonal && config.SeasonalM > 1
	m, sd := 0, 0
	if seasonal {
		m = config.SeasonalM
		sd = seasonalDifferencing(series, config.MaxSD, m, config.SeasonalTest)
	}
	if sd > 0 && series.Len() < (sarima.Order{P: 1, SD: sd, M: m}).MinLength() {
		s.log.Debug("series too short for seasonal differencing",
			zap.Int("D", sd), zap.Int("points", series.Len()))
		sd = 0
	}

	work := series
	for i := 0; i < sd; i++ {
		work = work.SeasonalDiff(m)
	}
	d := 0
	if work.Len() >= 10 {
		d = stats.NDiffs(work, config.MaxD, config.StationTest)
	}

	s.log.Debug("differencing selected",
		zap.Int("d", d), zap.Int("D", sd), zap.Int("m", m))

	base := sarima.Order{D: d, SD: sd}
	if seasonal {
		base.M = m
	}

	if config.Stepwise {
		s.stepwise(base, seasonal)
	} else {
		s.grid(base, seasonal)
	}

	if s.best == nil {
		return nil, fmt.Errorf("%w: d=%d D=%d on %d points", ErrNoModel, d, sd, series.Len())
	}

	model := s.best.model
	return &Result{
		Model:           model,
		Order:           model.Order,
		AIC:             model.AIC,
		AICc:            model.AICc,
		BIC:             model.BIC,
		LogLik:          model.LogLik,
		Criterion:       s.best.score,
		ModelsEvaluated: s.evaluated,
	}, nil
}

// seasonalDifferencing picks D from the seasonal autocorrelation, or from
// the seasonal strength when test is SeasonalTestStrength.
func seasonalDifferencing(series *timeseries.Series, maxSD, period int, test string) int {
	if maxSD <= 0 {
		return 0
	}
	if test == SeasonalTestStrength {
		return stats.NSDiffs(series, period, maxSD)
	}

	acf := stats.ACF(series, period*2)
	if len(acf) > period && math.Abs(acf[period]) > 0.5 {
		return 1
	}
	return 0
}

type candidate struct {
	model *sarima.Model
	score float64
}

type searcher struct {
	series    *timeseries.Series
	config    *Config
	log       *zap.Logger
	tried     map[sarima.Order]*candidate
	best      *candidate
	evaluated int
}

// inBounds reports whether o respects the configured maxima.
func (s *searcher) inBounds(o sarima.Order) bool {
	c := s.config
	return o.P >= 0 && o.P <= c.MaxP && o.Q >= 0 && o.Q <= c.MaxQ &&
		o.SP >= 0 && o.SP <= c.MaxSP && o.SQ >= 0 && o.SQ <= c.MaxSQ
}

// try fits o once and reports whether it became the new best.
func (s *searcher) try(o sarima.Order) bool {
	if !s.inBounds(o) {
		return false
	}
	if _, seen := s.tried[o]; seen {
		return false
	}

	model := sarima.NewWithOrder(o)
	if err := model.Fit(s.series); err != nil {
		s.tried[o] = nil
		s.log.Debug("candidate skipped", zap.Stringer("order", o), zap.Error(err))
		return false
	}
	s.evaluated++

	c := &candidate{model: model, score: s.score(model)}
	s.tried[o] = c

	level := zap.DebugLevel
	if s.config.Trace {
		level = zap.InfoLevel
	}
	if ce := s.log.Check(level, "candidate fitted"); ce != nil {
		ce.Write(zap.Stringer("order", o), zap.Float64(s.criterionName(), c.score))
	}

	if math.IsNaN(c.score) {
		return false
	}
	if s.best == nil || c.score < s.best.score {
		s.best = c
		return true
	}
	return false
}

func (s *searcher) criterionName() string {
	switch s.config.Criterion {
	case CriterionBIC, CriterionAICc:
		return s.config.Criterion
	default:
		return CriterionAIC
	}
}

func (s *searcher) score(m *sarima.Model) float64 {
	switch s.config.Criterion {
	case CriterionBIC:
		return m.BIC
	case CriterionAICc:
		return m.AICc
	default:
		return m.AIC
	}
}

// grid fits every order within the bounds.
func (s *searcher) grid(base sarima.Order, seasonal bool) {
	maxSP, maxSQ := 0, 0
	if seasonal {
		maxSP, maxSQ = s.config.MaxSP, s.config.MaxSQ
	}
	for p := 0; p <= s.config.MaxP; p++ {
		for q := 0; q <= s.config.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					o := base
					o.P, o.Q, o.SP, o.SQ = p, q, sp, sq
					s.try(o)
				}
			}
		}
	}
}

// stepwise runs the Hyndman-Khandakar search: fit a fixed set of starting
// orders, then move to the best neighbour until none improves.
func (s *searcher) stepwise(base sarima.Order, seasonal bool) {
	with := func(p, q, sp, sq int) sarima.Order {
		o := base
		o.P, o.Q = p, q
		if seasonal {
			o.SP, o.SQ = sp, sq
		}
		return o
	}

	starts := []sarima.Order{
		with(2, 2, 1, 1),
		with(0, 0, 0, 0),
		with(1, 0, 1, 0),
		with(0, 1, 0, 1),
		with(1, 1, 1, 1),
	}
	for _, o := range starts {
		s.try(o)
	}
	if s.best == nil {
		return
	}

	for {
		cur := s.best.model.Order
		neighbours := []sarima.Order{
			with(cur.P+1, cur.Q, cur.SP, cur.SQ),
			with(cur.P-1, cur.Q, cur.SP, cur.SQ),
			with(cur.P, cur.Q+1, cur.SP, cur.SQ),
			with(cur.P, cur.Q-1, cur.SP, cur.SQ),
			with(cur.P+1, cur.Q+1, cur.SP, cur.SQ),
			with(cur.P-1, cur.Q-1, cur.SP, cur.SQ),
		}
		if seasonal {
			neighbours = append(neighbours,
				with(cur.P, cur.Q, cur.SP+1, cur.SQ),
				with(cur.P, cur.Q, cur.SP-1, cur.SQ),
				with(cur.P, cur.Q, cur.SP, cur.SQ+1),
				with(cur.P, cur.Q, cur.SP, cur.SQ-1),
			)
		}

		improved := false
		for _, o := range neighbours {
			if s.try(o) {
				improved = true
			}
		}
		if !improved {
			return
		}
	}
}

// Predict generates forecasts using the selected model.
func (r *Result) Predict(steps int) ([]float64, error) {
	if r.Model == nil {
		return nil, sarima.ErrNotFitted
	}
	return r.Model.Predict(steps)
}

// Residuals returns the model residuals.
func (r *Result) Residuals() []float64 {
	if r.Model == nil {
		return nil
	}
	return r.Model.Residuals()
}

// FittedValues returns in-sample predictions on the original scale.
func (r *Result) FittedValues() []float64 {
	if r.Model == nil {
		return nil
	}
	return r.Model.LevelFittedValues()
}
