package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salescast/autoarima"
	"github.com/sartorproj/salescast/evaluate"
	"github.com/sartorproj/salescast/internal/metrics"
	"github.com/sartorproj/salescast/regression"
)

func (a *app) evaluateCmd() *cobra.Command {
	var (
		in        inputFlags
		steps     []int
		horizon   int
		train     int
		cacheSize int
		withLag   bool
		textfile  string
	)
	cmd := &cobra.Command{
		Use:   "evaluate <input>",
		Short: "Compare forecasting strategies by forward-chaining evaluation",
		Long: `Refits every strategy on a growing training prefix and scores its
forecast of the next horizon months. A strategy that fails at some step is
abandoned there and its scores cover the completed steps only.

Several --steps values run one evaluation each. Forecasts are memoized per
training window, so overlapping runs do not refit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := &a.cfg.Evaluation
			flags := cmd.Flags()
			if flags.Changed("horizon") {
				ev.Horizon = horizon
			}
			if flags.Changed("train") {
				ev.Train = train
			}
			if flags.Changed("cache-size") {
				ev.CacheSize = cacheSize
			}
			if flags.Changed("lag-regression") {
				ev.LagRegression = withLag
			}
			if flags.Changed("metrics-textfile") {
				a.cfg.Metrics.Textfile = textfile
			}
			if !flags.Changed("steps") {
				steps = []int{ev.Steps}
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			series, err := a.loadSeries(args[0], in)
			if err != nil {
				return err
			}

			strategies := a.strategies()
			var memos []*evaluate.Memo
			if ev.CacheSize > 0 {
				for i, s := range strategies {
					m, err := evaluate.Memoize(s, ev.CacheSize)
					if err != nil {
						return err
					}
					memos = append(memos, m)
					strategies[i] = m
				}
			}

			recorder := metrics.NewRecorder()
			for i, s := range steps {
				plan := evaluate.Plan{Train: ev.Train, Horizon: ev.Horizon, Steps: s}
				report, err := evaluate.Evaluate(series, strategies, plan,
					evaluate.WithLogger(a.log.Zap()),
					evaluate.WithObserver(recorder))
				if err != nil {
					return err
				}
				recorder.RecordReport(report)

				if i > 0 {
					fmt.Fprintln(a.out)
				}
				if err := report.Render(a.out); err != nil {
					return err
				}
				if best, ok := report.Best(); ok {
					fmt.Fprintf(a.out, "Best by RMSE: %s\n", best.Strategy)
				}
			}

			for _, m := range memos {
				hits, misses := m.Stats()
				recorder.RecordCache(m.Name(), hits, misses)
				a.log.Debugw("forecast cache", "strategy", m.Name(), "hits", hits, "misses", misses)
			}

			if path := a.cfg.Metrics.Textfile; path != "" {
				if err := recorder.WriteTextfile(path); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
				a.log.Infow("metrics written", "path", path)
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntSliceVar(&steps, "steps", nil, "Evaluation steps; repeat or comma-separate for several runs")
	cmd.Flags().IntVar(&horizon, "horizon", 1, "Months forecast at each step")
	cmd.Flags().IntVar(&train, "train", 0, "Initial training size (0 = N - steps)")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 256, "Memoized forecasts per strategy (0 disables)")
	cmd.Flags().BoolVar(&withLag, "lag-regression", false, "Also evaluate the lag regression pipeline")
	cmd.Flags().StringVar(&textfile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	return cmd
}

// arimaConfig is the seasonal Auto ARIMA search configured for this run.
func (a *app) arimaConfig() *autoarima.Config {
	ev := a.cfg.Evaluation
	c := autoarima.SeasonalConfig(ev.SeasonalPeriod)
	c.Criterion = ev.Criterion
	c.Stepwise = ev.Stepwise
	c.Logger = a.log.Zap()
	return c
}

// strategies builds the configured strategy set in report order.
func (a *app) strategies() []evaluate.Strategy {
	ev := a.cfg.Evaluation
	var out []evaluate.Strategy
	for _, w := range ev.MAWindows {
		out = append(out, evaluate.MovingAverage(w))
	}
	out = append(out,
		evaluate.SES(ev.SESAlpha),
		evaluate.HoltWinters(ev.SeasonalPeriod),
		evaluate.AutoARIMA(a.arimaConfig()),
	)
	if ev.LagRegression {
		out = append(out, regression.Strategy(a.cfg.Regression.Lags))
	}
	return out
}
