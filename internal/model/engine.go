package model

import (
	"fmt"
	"math"

	"github.com/san-kum/climsim/internal/climate"
)

type Engine struct {
	params Params
}

func New(params Params) *Engine {
	return &Engine{params: params}
}

func (e *Engine) Params() Params { return e.params }

// CheckSensitivity reports whether s lies within the configured bounds.
func (e *Engine) CheckSensitivity(s float64) error {
	if math.IsNaN(s) || s < e.params.SensitivityMin || s > e.params.SensitivityMax {
		return fmt.Errorf("%w: %v not in [%v, %v]", climate.ErrSensitivityBounds,
			s, e.params.SensitivityMin, e.params.SensitivityMax)
	}
	return nil
}

// ConcentrationStep returns the concentration one period after prior when
// emissions gigatons of carbon are released.
func (e *Engine) ConcentrationStep(prior, emissions float64) (float64, error) {
	if !(prior >= 0) || math.IsInf(prior, 0) {
		return 0, fmt.Errorf("%w: prior concentration %v", climate.ErrDomain, prior)
	}
	if !(emissions >= 0) || math.IsInf(emissions, 0) {
		return 0, fmt.Errorf("%w: emissions %v", climate.ErrDomain, emissions)
	}
	return prior + (emissions*e.params.AirborneFraction)/e.params.GtCPerPPM, nil
}

// TemperatureStep applies T = T0 + S*log2(C/C0) and returns the new
// temperature with its anomaly against the reference temperature.
func (e *Engine) TemperatureStep(priorTemp, sensitivity, newConc, priorConc float64) (temp, anomaly float64, err error) {
	if err := e.CheckSensitivity(sensitivity); err != nil {
		return 0, 0, err
	}
	if !(newConc > 0) || !(priorConc > 0) || math.IsInf(newConc, 0) || math.IsInf(priorConc, 0) {
		return 0, 0, fmt.Errorf("%w: concentrations must be positive, got %v -> %v",
			climate.ErrDomain, priorConc, newConc)
	}
	if math.IsNaN(priorTemp) || math.IsInf(priorTemp, 0) {
		return 0, 0, fmt.Errorf("%w: prior temperature %v", climate.ErrDomain, priorTemp)
	}
	temp = priorTemp + sensitivity*math.Log2(newConc/priorConc)
	anomaly = temp - e.params.ReferenceTemp
	return temp, anomaly, nil
}
