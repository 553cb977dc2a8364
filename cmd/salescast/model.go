package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salescast/regression"
)

func (a *app) trainCmd() *cobra.Command {
	var (
		in    inputFlags
		lags  int
		split float64
		out   string
	)
	cmd := &cobra.Command{
		Use:   "train <input>",
		Short: "Fit the lag regression pipeline and save it as a JSON artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := &a.cfg.Regression
			if cmd.Flags().Changed("lags") {
				rc.Lags = lags
			}
			if cmd.Flags().Changed("train-fraction") {
				rc.TrainFraction = split
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			series, err := a.loadSeries(args[0], in)
			if err != nil {
				return err
			}
			res, err := regression.Train(series.Values, rc.Lags, rc.TrainFraction)
			if err != nil {
				return err
			}
			if err := res.Pipeline.Save(out); err != nil {
				return fmt.Errorf("failed to save pipeline: %w", err)
			}
			a.log.Infow("pipeline saved", "id", res.Pipeline.ID, "path", out)

			m := res.Metrics
			fmt.Fprintf(a.out, "=== Lag regression (%d lags) ===\n", rc.Lags)
			fmt.Fprintf(a.out, "Train rows: %d, test rows: %d\n", res.Train.Len(), res.Test.Len())
			fmt.Fprintf(a.out, "MAE:  %.4f\nRMSE: %.4f\nR2:   %s\n", m.MAE, m.RMSE, formatValue(m.R2))
			if dw := res.DurbinWatson; dw != nil {
				fmt.Fprintf(a.out, "Durbin-Watson (train residuals): %.4f, autocorrelation: %s\n",
					dw.Statistic, dw.Autocorrelation())
			}
			fmt.Fprintf(a.out, "Pipeline %s written to %s\n", res.Pipeline.ID, out)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&lags, "lags", regression.DefaultLags, "Number of lag features")
	cmd.Flags().Float64Var(&split, "train-fraction", regression.DefaultTrainFraction, "Chronological share of rows used for fitting")
	cmd.Flags().StringVarP(&out, "out", "o", "pipeline.json", "Artifact path")
	return cmd
}

func (a *app) predictCmd() *cobra.Command {
	var (
		in     inputFlags
		model  string
		months int
	)
	cmd := &cobra.Command{
		Use:   "predict <input>",
		Short: "Forecast with a saved lag regression pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if months < 1 {
				return fmt.Errorf("--months must be at least 1, got %d", months)
			}
			p, err := regression.Load(model)
			if err != nil {
				return fmt.Errorf("failed to load pipeline: %w", err)
			}
			series, err := a.loadSeries(args[0], in)
			if err != nil {
				return err
			}
			values, err := p.Forecast(series.Values, months)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "=== Pipeline %s (%d lags, trained %s) ===\n",
				p.ID, p.Lags, p.CreatedAt.Format(time.RFC3339))
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Month\tForecast\t")
			for i, ts := range series.NextMonths(months) {
				fmt.Fprintf(tw, "%s\t%.4f\t\n", ts.Format(time.DateOnly), values[i])
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&model, "model", "m", "pipeline.json", "Pipeline artifact")
	cmd.Flags().IntVar(&months, "months", 6, "Months to forecast")
	return cmd
}
