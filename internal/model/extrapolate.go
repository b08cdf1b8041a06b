package model

import (
	"fmt"

	"github.com/san-kum/climsim/internal/climate"
)

// Extrapolate projects n yearly records past the baseline year at a constant
// emissions rate. Each step starts from the previous step's modeled values.
// The returned records have no recorded fields.
func (e *Engine) Extrapolate(n int, sensitivity, emissions float64) ([]climate.Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: number of periods must be positive, got %d", climate.ErrDomain, n)
	}
	if err := e.CheckSensitivity(sensitivity); err != nil {
		return nil, err
	}

	p := e.params
	records := make([]climate.Record, 0, n)
	priorConc := p.BaselineConcentration
	priorTemp := p.BaselineTemp

	for i := 1; i <= n; i++ {
		period := climate.Yearly(p.BaselineYear + i)

		conc, err := e.ConcentrationStep(priorConc, emissions)
		if err != nil {
			return nil, &climate.StepError{Index: i, Period: period, Wrapped: err}
		}
		temp, anomaly, err := e.TemperatureStep(priorTemp, sensitivity, conc, priorConc)
		if err != nil {
			return nil, &climate.StepError{Index: i, Period: period, Wrapped: err}
		}

		rec, err := climate.NewRecord(period, conc)
		if err != nil {
			return nil, err
		}
		rec.SetModeled(temp, anomaly)
		records = append(records, rec)

		priorConc = conc
		priorTemp = temp
	}

	return records, nil
}
