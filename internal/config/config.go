package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/climsim/internal/ingest"
	"github.com/san-kum/climsim/internal/model"
	"github.com/san-kum/climsim/internal/series"
)

const (
	GranularityYearly  = "yearly"
	GranularityMonthly = "monthly"

	DefaultSensitivity = 3.0
	DefaultEmissions   = 10.0
	DefaultYears       = 30
	MaxEmissions       = 50.0
	DefaultDataDir     = ".climsim"
)

type Config struct {
	DataDir     string       `yaml:"data_dir"`
	PeriodRange series.Range `yaml:"period_range"`
	Model       model.Params `yaml:"model"`
	Run         RunConfig    `yaml:"run"`
	Data        DataConfig   `yaml:"data"`
}

type RunConfig struct {
	Granularity string  `yaml:"granularity"`
	Sensitivity float64 `yaml:"sensitivity"`
	// Emissions is the constant yearly carbon release in GtC used when extrapolating.
	Emissions float64 `yaml:"emissions"`
	Years     int     `yaml:"years"`
}

type DataConfig struct {
	// Dir is where relative table paths are resolved.
	Dir     string        `yaml:"dir"`
	Yearly  ingest.Source `yaml:"yearly"`
	Monthly ingest.Source `yaml:"monthly"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     DefaultDataDir,
		PeriodRange: series.DefaultRange(),
		Model:       model.DefaultParams(),
		Run: RunConfig{
			Granularity: GranularityYearly,
			Sensitivity: DefaultSensitivity,
			Emissions:   DefaultEmissions,
			Years:       DefaultYears,
		},
		Data: DataConfig{
			Dir:     "data",
			Yearly:  ingest.DefaultYearlySource(),
			Monthly: ingest.DefaultMonthlySource(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.PeriodRange.Validate(); err != nil {
		return err
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	switch c.Run.Granularity {
	case GranularityYearly, GranularityMonthly:
	default:
		return fmt.Errorf("unknown granularity %q", c.Run.Granularity)
	}
	if c.Run.Sensitivity < c.Model.SensitivityMin || c.Run.Sensitivity > c.Model.SensitivityMax {
		return fmt.Errorf("sensitivity %v not in [%v, %v]", c.Run.Sensitivity, c.Model.SensitivityMin, c.Model.SensitivityMax)
	}
	if c.Run.Emissions < 0 || c.Run.Emissions > MaxEmissions {
		return fmt.Errorf("emissions %v not in [0, %v]", c.Run.Emissions, MaxEmissions)
	}
	if c.Run.Years <= 0 {
		return fmt.Errorf("years must be positive, got %d", c.Run.Years)
	}
	for name, src := range map[string]ingest.Source{"yearly": c.Data.Yearly, "monthly": c.Data.Monthly} {
		if err := src.Concentration.Layout.Validate(); err != nil {
			return fmt.Errorf("data.%s.concentration: %w", name, err)
		}
		if err := src.Anomaly.Layout.Validate(); err != nil {
			return fmt.Errorf("data.%s.anomaly: %w", name, err)
		}
	}
	return nil
}

func (c *Config) Monthly() bool { return c.Run.Granularity == GranularityMonthly }

func (c *Config) ModelParams() model.Params { return c.Model }

func (c *Config) Assembler() *series.Assembler {
	return series.New(c.PeriodRange, c.Model.ReferenceTemp)
}

// Source returns the table pair for the configured granularity with paths
// resolved against Data.Dir.
func (c *Config) Source() ingest.Source {
	src := c.Data.Yearly
	if c.Monthly() {
		src = c.Data.Monthly
	}
	return src.Resolve(c.Data.Dir)
}

// ApplyPreset copies a preset's run settings over c.
func (c *Config) ApplyPreset(p *Preset) {
	c.Run.Sensitivity = p.Sensitivity
	c.Run.Emissions = p.Emissions
	c.Run.Years = p.Years
}
