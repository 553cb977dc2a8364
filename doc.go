// Package salescast forecasts monthly sales and compares forecasting
// strategies by forward-chaining evaluation.
//
// The module is organized as a set of packages:
//
//   - timeseries: monthly series, aggregation and ds,y CSV files
//   - sales: transaction input (CSV, XLSX), log1p aggregation and IQR cleaning
//   - stats: descriptive statistics, ACF, stationarity tests, decomposition
//   - smoothing: moving average, simple exponential smoothing, Holt-Winters
//   - sarima, autoarima: seasonal ARIMA and automatic order selection
//   - regression: lag-feature OLS pipeline with JSON artifacts
//   - evaluate: forward-chaining evaluation of named strategies
//
// # Quick Start
//
// Prepare a series and evaluate the default strategies over the last 12
// months:
//
//	txs, _ := sales.LoadFile("orders.csv", sales.DefaultOptions())
//	prepared, _ := sales.Prepare(txs, stats.DefaultIQRMultiplier)
//	report, _ := evaluate.Evaluate(prepared.Series(), evaluate.Defaults(), evaluate.DefaultPlan())
//	report.Render(os.Stdout)
//
// The salescast command in cmd/salescast wraps the same steps.
package salescast
