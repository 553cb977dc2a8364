// Package sarima implements seasonal ARIMA models, ARIMA(p,d,q)(P,D,Q)[m],
// estimated by conditional sum of squares.
//
// A model without seasonal terms is a plain ARIMA(p,d,q):
//
//	model := sarima.NewARIMA(1, 1, 1)
//
// Monthly sales with a yearly cycle use m = 12:
//
//	model := sarima.New(0, 1, 1, 0, 1, 1, 12)
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//	forecasts, lower, upper, err := model.PredictWithInterval(12, 0.95)
//
// A series the model reproduces exactly (a constant, a straight line under
// d = 1) has zero residual variance. Its log-likelihood is +Inf and its
// information criteria -Inf, so such a fit always wins a model search.
package sarima
