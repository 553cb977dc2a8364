// Package evaluate scores forecasting strategies by forward-chaining
// (rolling-origin) evaluation.
//
// For a series of length N and a Plan (T, H, S) every strategy is asked, for
// each step i in [0, S), to forecast series[T+i : T+i+H] from series[0:T+i].
// MAE, RMSE and MAPE are averaged over the steps the strategy completed.
//
//	report, err := evaluate.Evaluate(series, evaluate.Defaults(), evaluate.DefaultPlan(),
//	    evaluate.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	report.Render(os.Stdout)
//
// A strategy that fails at some step is abandoned there and the remaining
// strategies still run; Score.Steps and Score.FailedStep show how far it
// got. A step whose actual value is 0 counts towards MAE and RMSE but not
// MAPE, and Score.MAPESteps says how many steps MAPE was averaged over.
package evaluate
