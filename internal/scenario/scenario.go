// Package scenario runs scripted sequences of replays, extrapolations,
// sensitivity sweeps and ensembles described in YAML.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/climsim/internal/config"
)

const (
	ActionReplay      = "replay"
	ActionExtrapolate = "extrapolate"
	ActionSweep       = "sweep"
	ActionEnsemble    = "ensemble"
)

// Scenario is a named list of steps executed in order.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one action. Zero fields take the runner's defaults; Preset fills
// sensitivity, emissions and years before explicit fields are applied.
type Step struct {
	Name        string  `yaml:"name"`
	Action      string  `yaml:"action"`
	Preset      string  `yaml:"preset,omitempty"`
	Granularity string  `yaml:"granularity,omitempty"`
	Sensitivity float64 `yaml:"sensitivity,omitempty"`
	Years       int     `yaml:"years,omitempty"`

	// Emissions is a pointer so that an explicit zero is kept.
	Emissions *float64 `yaml:"emissions,omitempty"`

	// From and Count select a window of the history for replay.
	From  string `yaml:"from,omitempty"`
	Count int    `yaml:"count,omitempty"`

	SweepStep float64 `yaml:"sweep_step,omitempty"`
	Trials    int     `yaml:"trials,omitempty"`
	Seed      int64   `yaml:"seed,omitempty"`
	Save      bool    `yaml:"save,omitempty"`
}

func (s Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d (%s)", i+1, s.Action)
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case ActionReplay, ActionExtrapolate, ActionSweep, ActionEnsemble:
		default:
			return fmt.Errorf("%s: unknown action %q", st.label(i), st.Action)
		}
		switch st.Granularity {
		case "", config.GranularityYearly, config.GranularityMonthly:
		default:
			return fmt.Errorf("%s: unknown granularity %q", st.label(i), st.Granularity)
		}
		if st.Preset != "" && config.GetPreset(st.Preset) == nil {
			return fmt.Errorf("%s: unknown preset %q", st.label(i), st.Preset)
		}
		if st.Count < 0 || st.Years < 0 || st.Trials < 0 || st.SweepStep < 0 || (st.Emissions != nil && *st.Emissions < 0) {
			return fmt.Errorf("%s: negative setting", st.label(i))
		}
	}
	return nil
}

// resolve merges a step over defaults.
func (s Step) resolve(defaults config.RunConfig) Step {
	out := s
	if out.Granularity == "" {
		out.Granularity = defaults.Granularity
	}
	sens, emis, years := defaults.Sensitivity, defaults.Emissions, defaults.Years
	if p := config.GetPreset(s.Preset); p != nil {
		sens, emis, years = p.Sensitivity, p.Emissions, p.Years
	}
	if out.Sensitivity == 0 {
		out.Sensitivity = sens
	}
	if out.Emissions == nil {
		out.Emissions = &emis
	}
	if out.Years == 0 {
		out.Years = years
	}
	if out.SweepStep == 0 {
		out.SweepStep = 0.1
	}
	if out.Trials == 0 {
		out.Trials = 100
	}
	return out
}
