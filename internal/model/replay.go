package model

import (
	"github.com/san-kum/climsim/internal/climate"
)

type modeled struct {
	temp, anomaly float64
}

// Replay models every record after the first as a single step from the
// previous record's recorded temperature and concentration. The first record
// is the seed and is left unmodeled. Records are validated and all steps
// computed before any record is written, so a failure leaves the list
// untouched.
func (e *Engine) Replay(records []climate.Record, sensitivity float64) error {
	if err := e.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		if !records[i].HasRecorded() {
			return &climate.StepError{Index: i, Period: records[i].Period, Wrapped: climate.ErrNoGroundTruth}
		}
	}

	out := make([]modeled, len(records))
	priorConc := records[0].Concentration
	priorTemp := *records[0].RecordedTemp

	for i := 1; i < len(records); i++ {
		cur := &records[i]
		temp, anomaly, err := e.TemperatureStep(priorTemp, sensitivity, cur.Concentration, priorConc)
		if err != nil {
			return &climate.StepError{Index: i, Period: cur.Period, Wrapped: err}
		}
		out[i] = modeled{temp: temp, anomaly: anomaly}

		priorConc = cur.Concentration
		priorTemp = *cur.RecordedTemp
	}

	records[0].ClearModeled()
	for i := 1; i < len(records); i++ {
		records[i].SetModeled(out[i].temp, out[i].anomaly)
	}
	return nil
}
