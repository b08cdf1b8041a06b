package config

import "sort"

// Preset is a named extrapolation scenario.
type Preset struct {
	Description string  `yaml:"description"`
	Sensitivity float64 `yaml:"sensitivity"`
	Emissions   float64 `yaml:"emissions"`
	Years       int     `yaml:"years"`
}

var Presets = map[string]*Preset{
	"low": {
		Description: "low end of the likely sensitivity range",
		Sensitivity: 2.0, Emissions: 10.0, Years: 30,
	},
	"central": {
		Description: "best estimate sensitivity at current emissions",
		Sensitivity: 3.0, Emissions: 10.0, Years: 30,
	},
	"high": {
		Description: "high end of the likely sensitivity range",
		Sensitivity: 4.5, Emissions: 10.0, Years: 30,
	},
	"business_as_usual": {
		Description: "emissions keep growing toward the slider maximum",
		Sensitivity: 3.0, Emissions: 20.0, Years: 80,
	},
	"net_zero": {
		Description: "no further emissions",
		Sensitivity: 3.0, Emissions: 0.0, Years: 80,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
