// Package model implements the recurrence relations of the climate model.
//
// Two pure step functions drive everything:
//
//   - [Engine.ConcentrationStep]: next CO2 concentration from an emissions rate
//   - [Engine.TemperatureStep]: next temperature from a concentration change
//
// They are composed by two drivers with different error behaviour:
//
//   - [Engine.Replay] reseeds every step from recorded history, so each
//     modeled period is an isolated one-step prediction
//   - [Engine.Extrapolate] chains modeled output into the next step, so
//     errors compound over the horizon
//
// # Example
//
//	eng := model.New(model.DefaultParams())
//	if err := eng.Replay(records, 3.0); err != nil {
//	    return err
//	}
//	future, err := eng.Extrapolate(30, 3.0, 10.0)
//
// All constants live in [Params]; nothing in the package reads global state.
package model
