// Package smoothing implements the moving-average and exponential smoothing
// forecasters used for monthly sales: moving-average forecasts, simple
// exponential smoothing with a fixed level, and Holt-Winters with additive
// or multiplicative seasonality.
package smoothing
