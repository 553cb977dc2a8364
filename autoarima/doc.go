// Package autoarima selects ARIMA and seasonal ARIMA orders automatically.
//
// Differencing orders come from unit-root tests (KPSS and ADF for d, the
// seasonal autocorrelation or seasonal strength for D). The AR and MA
// orders are then searched by minimizing an information criterion, either
// stepwise (Hyndman-Khandakar) or over the full grid.
//
//	config := autoarima.SeasonalConfig(12)
//	config.MaxP, config.MaxQ = 2, 2
//
//	result, err := autoarima.AutoARIMA(series, config)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s AIC=%.2f after %d fits\n", result.Order, result.AIC, result.ModelsEvaluated)
//	forecasts, err := result.Predict(12)
//
// Every candidate fit is traced on Config.Logger at debug level, or at info
// level when Config.Trace is set.
package autoarima
