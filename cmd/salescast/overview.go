package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salescast/autoarima"
	"github.com/sartorproj/salescast/sales"
	"github.com/sartorproj/salescast/smoothing"
	"github.com/sartorproj/salescast/stats"
	"github.com/sartorproj/salescast/timeseries"
)

func (a *app) overviewCmd() *cobra.Command {
	var (
		export string
		views  bool
	)
	cmd := &cobra.Command{
		Use:   "overview <transactions.csv|xlsx>",
		Short: "Summarize the cleaned monthly series, its outliers and seasonality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := a.prepare(args[0])
			if err != nil {
				return err
			}
			if err := writeOverview(a.out, prepared); err != nil {
				return err
			}
			if views {
				if err := a.writeViews(a.out, prepared.Series()); err != nil {
					return err
				}
			}
			if export != "" {
				if err := timeseries.SaveCSV(prepared.Series(), export); err != nil {
					return fmt.Errorf("failed to export series: %w", err)
				}
				fmt.Fprintf(a.out, "\nCleaned series written to %s\n", export)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&export, "export", "o", "", "Write the cleaned monthly series as ds,y CSV")
	cmd.Flags().BoolVar(&views, "views", false, "Print moving-average and in-sample model fits per month")
	return cmd
}

func writeOverview(w io.Writer, p *sales.Prepared) error {
	s := p.Series()
	o := p.Overview
	fmt.Fprintf(w, "=== Monthly sales (log1p) ===\n")
	fmt.Fprintf(w, "Months: %d (%s to %s)\n\n", s.Len(),
		s.Timestamps[0].Format("2006-01"), s.Timestamps[s.Len()-1].Format("2006-01"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"count", float64(o.Count)},
		{"mean", o.Mean},
		{"std", o.Std},
		{"min", o.Min},
		{"25%", o.Q1},
		{"50%", o.Median},
		{"75%", o.Q3},
		{"max", o.Max},
		{"variance", o.Variance},
		{"IQR", o.IQR},
		{"skewness", o.Skewness},
		{"kurtosis", o.Kurtosis},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", row.name, formatValue(row.value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b := p.Cleaning.Bounds
	fmt.Fprintf(w, "\n=== Outliers ===\n")
	fmt.Fprintf(w, "Bounds: [%.4f, %.4f], replaced with mean %.4f\n", b.Lower, b.Upper, p.Cleaning.Mean)
	if len(p.Cleaning.Outliers) == 0 {
		fmt.Fprintln(w, "None")
	}
	for _, out := range p.Cleaning.Outliers {
		fmt.Fprintf(w, "%s  %.4f\n", out.Time.Format(time.DateOnly), out.Value)
	}

	fmt.Fprintf(w, "\n=== Mean by calendar month ===\n")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for m := time.January; m <= time.December; m++ {
		if v, ok := p.MonthOfYear[m]; ok {
			fmt.Fprintf(tw, "%s\t%.4f\n", m.String()[:3], v)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if acf := stats.ACF(s, 2*sales.SeasonalPeriod); acf != nil {
		bound := stats.ACFBound(s.Len())
		fmt.Fprintf(w, "\n=== Autocorrelation (bound %.4f) ===\n", bound)
		fmt.Fprintf(w, "Significant ACF lags:  %s\n", formatLags(stats.SignificantLags(acf, bound)))
		fmt.Fprintf(w, "Significant PACF lags: %s\n",
			formatLags(stats.SignificantLags(stats.PACF(s, 2*sales.SeasonalPeriod), bound)))
	}

	if p.Decomposition != nil {
		fmt.Fprintf(w, "\n=== Additive decomposition (period %d) ===\n", sales.SeasonalPeriod)
		fmt.Fprintf(w, "Seasonal strength: %.4f\n", stats.SeasonalStrength(s, sales.SeasonalPeriod))
		fmt.Fprintf(w, "Trend strength:    %.4f\n", stats.TrendStrength(s, sales.SeasonalPeriod))
	}
	return nil
}

// writeViews prints the series beside MA(3), MA(6) and in-sample fits of
// SES, Holt-Winters and Auto ARIMA. A model that cannot be fitted shows
// n/a.
func (a *app) writeViews(w io.Writer, s *timeseries.Series) error {
	ev := a.cfg.Evaluation
	nan := func() []float64 {
		out := make([]float64, s.Len())
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	ma3, ma6 := s.Rolling(3).Values, s.Rolling(6).Values

	ses := nan()
	sesModel := smoothing.NewSES(ev.SESAlpha)
	if err := sesModel.Fit(s.Values); err != nil {
		a.log.Warnw("SES fit failed", "error", err)
	} else {
		ses = sesModel.FittedValues()
	}

	hw := nan()
	hwCfg := smoothing.DefaultHoltWintersConfig()
	hwCfg.SeasonalPeriod = ev.SeasonalPeriod
	hwModel := smoothing.NewHoltWinters(hwCfg)
	if err := hwModel.Fit(s.Values); err != nil {
		a.log.Warnw("Holt-Winters fit failed", "error", err)
	} else {
		hw = hwModel.FittedValues()
	}

	arima := nan()
	if res, err := autoarima.AutoARIMA(s, a.arimaConfig()); err != nil {
		a.log.Warnw("Auto ARIMA failed", "error", err)
	} else {
		a.log.Infow("Auto ARIMA selected", "order", res.Order.String(), "aic", res.AIC)
		arima = res.FittedValues()
	}

	fmt.Fprintf(w, "\n=== Rolling views ===\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tSales\tMA(3)\tMA(6)\tSES\tHolt-Winters\tAuto ARIMA\t")
	for i, ts := range s.Timestamps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", ts.Format("2006-01"),
			formatValue(s.Values[i]), formatValue(ma3[i]), formatValue(ma6[i]),
			formatValue(ses[i]), formatValue(hw[i]), formatValue(arima[i]))
	}
	return tw.Flush()
}

func formatLags(lags []int) string {
	if len(lags) == 0 {
		return "none"
	}
	parts := make([]string, len(lags))
	for i, l := range lags {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
