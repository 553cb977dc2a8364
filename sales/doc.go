// Package sales turns order-level transaction exports into the cleaned
// monthly series the forecasters consume.
//
// Transactions are read from CSV or XLSX with day-first dates, summed per
// calendar month after a log1p transform, and cleaned by replacing values
// outside the IQR fences with the series mean:
//
//	txs, err := sales.LoadFile("superstore.xlsx", sales.DefaultOptions())
//	prepared, err := sales.Prepare(txs, stats.DefaultIQRMultiplier)
//	series := prepared.Series()
package sales
