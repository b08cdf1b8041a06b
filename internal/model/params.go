package model

import (
	"fmt"
	"math"
)

const (
	DefaultReferenceTemp         = 13.9
	DefaultSensitivityMin        = 2.0
	DefaultSensitivityMax        = 5.0
	DefaultAirborneFraction      = 0.45
	DefaultGtCPerPPM             = 2.3
	DefaultBaselineYear          = 2020
	DefaultBaselineConcentration = 414.24
	DefaultBaselineTemp          = 15.49
)

// Params are the tunable constants of the model.
type Params struct {
	// ReferenceTemp is the 20th-century mean temperature anomalies are measured from.
	ReferenceTemp  float64 `yaml:"reference_temp"`
	SensitivityMin float64 `yaml:"sensitivity_min"`
	SensitivityMax float64 `yaml:"sensitivity_max"`
	// AirborneFraction of emitted carbon that stays in the atmosphere.
	AirborneFraction float64 `yaml:"airborne_fraction"`
	// GtCPerPPM converts gigatons of carbon to ppm of CO2.
	GtCPerPPM             float64 `yaml:"gtc_per_ppm"`
	BaselineYear          int     `yaml:"baseline_year"`
	BaselineConcentration float64 `yaml:"baseline_concentration"`
	BaselineTemp          float64 `yaml:"baseline_temp"`
}

func DefaultParams() Params {
	return Params{
		ReferenceTemp:         DefaultReferenceTemp,
		SensitivityMin:        DefaultSensitivityMin,
		SensitivityMax:        DefaultSensitivityMax,
		AirborneFraction:      DefaultAirborneFraction,
		GtCPerPPM:             DefaultGtCPerPPM,
		BaselineYear:          DefaultBaselineYear,
		BaselineConcentration: DefaultBaselineConcentration,
		BaselineTemp:          DefaultBaselineTemp,
	}
}

func (p Params) Validate() error {
	if p.SensitivityMin <= 0 || p.SensitivityMax < p.SensitivityMin {
		return fmt.Errorf("invalid sensitivity bounds [%v, %v]", p.SensitivityMin, p.SensitivityMax)
	}
	if p.AirborneFraction < 0 || p.AirborneFraction > 1 {
		return fmt.Errorf("airborne fraction must be in [0, 1], got %v", p.AirborneFraction)
	}
	if p.GtCPerPPM <= 0 {
		return fmt.Errorf("gtc per ppm must be positive, got %v", p.GtCPerPPM)
	}
	if p.BaselineConcentration <= 0 {
		return fmt.Errorf("baseline concentration must be positive, got %v", p.BaselineConcentration)
	}
	if p.BaselineYear <= 0 {
		return fmt.Errorf("baseline year must be positive, got %d", p.BaselineYear)
	}
	for name, v := range map[string]float64{"reference temp": p.ReferenceTemp, "baseline temp": p.BaselineTemp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// PPMPerGtC is the concentration rise produced by one gigaton of emitted carbon.
func (p Params) PPMPerGtC() float64 {
	return p.AirborneFraction / p.GtCPerPPM
}
