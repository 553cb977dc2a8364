package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salescast/sales"
	"github.com/sartorproj/salescast/timeseries"
)

// inputFlags selects how the positional input file is read.
type inputFlags struct {
	monthly bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.monthly, "monthly", false, "Input is a prepared ds,y monthly series instead of transactions")
}

func (a *app) salesOptions() sales.Options {
	return sales.Options{
		DateColumn:  a.cfg.Input.DateColumn,
		SalesColumn: a.cfg.Input.SalesColumn,
		Sheet:       a.cfg.Input.Sheet,
	}
}

// prepare reads transactions and derives the cleaned monthly series.
func (a *app) prepare(path string) (*sales.Prepared, error) {
	txs, err := sales.LoadFile(path, a.salesOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prepared, err := sales.Prepare(txs, a.cfg.Input.IQRMultiplier)
	if err != nil {
		return nil, err
	}
	a.log.Infow("series prepared",
		"transactions", len(txs),
		"months", prepared.Series().Len(),
		"outliers", len(prepared.Cleaning.Outliers))
	return prepared, nil
}

// loadSeries returns the cleaned monthly series, either prepared from
// transactions or read as-is from a ds,y file.
func (a *app) loadSeries(path string, in inputFlags) (*timeseries.Series, error) {
	if !in.monthly {
		prepared, err := a.prepare(path)
		if err != nil {
			return nil, err
		}
		return prepared.Series(), nil
	}

	series, err := timeseries.LoadCSV(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := series.ValidateMonthly(); err != nil {
		return nil, err
	}
	return series, nil
}
