// Package regression fits a lag-feature linear model to a monthly series.
//
// The pipeline standardizes lag1..lagK and solves ordinary least squares
// with gonum. Fitted pipelines are saved as JSON artifacts and reload to
// identical predictions:
//
//	res, err := regression.Train(series.Values, regression.DefaultLags, regression.DefaultTrainFraction)
//	err = res.Pipeline.Save("pipeline.json")
//	p, err := regression.Load("pipeline.json")
//	next, err := p.Forecast(series.Values, 6)
package regression
