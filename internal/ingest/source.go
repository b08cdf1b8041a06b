package ingest

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/series"
)

// File is one table on disk and how to decode it.
type File struct {
	Path   string `yaml:"path"`
	Layout Layout `yaml:"layout"`
}

// Source pairs a concentration table with the anomaly table it is merged with.
type Source struct {
	Concentration File `yaml:"concentration"`
	Anomaly       File `yaml:"anomaly"`
}

func DefaultYearlySource() Source {
	return Source{
		Concentration: File{Path: "co2_annmean_mlo.csv", Layout: AnnualCO2Layout()},
		Anomaly:       File{Path: "annual_temp_anomalies.csv", Layout: AnnualAnomalyLayout()},
	}
}

func DefaultMonthlySource() Source {
	return Source{
		Concentration: File{Path: "co2_mm_mlo.csv", Layout: MonthlyCO2Layout()},
		Anomaly:       File{Path: "monthly_temp_anomalies.csv", Layout: MonthlyAnomalyLayout()},
	}
}

// Resolve returns a copy of s with relative paths joined onto dir.
func (s Source) Resolve(dir string) Source {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) || dir == "" {
			return p
		}
		return filepath.Join(dir, p)
	}
	s.Concentration.Path = join(s.Concentration.Path)
	s.Anomaly.Path = join(s.Anomaly.Path)
	return s
}

// Load reads both tables of src and assembles them into records.
func (r *Reader) Load(src Source, a *series.Assembler, monthly bool) ([]climate.Record, error) {
	conc, err := r.ConcentrationFile(src.Concentration.Path, src.Concentration.Layout)
	if err != nil {
		return nil, fmt.Errorf("load concentration: %w", err)
	}
	anom, err := r.AnomalyFile(src.Anomaly.Path, src.Anomaly.Layout)
	if err != nil {
		return nil, fmt.Errorf("load anomaly: %w", err)
	}

	var records []climate.Record
	if monthly {
		records, err = a.Monthly(conc, anom)
	} else {
		records, err = a.Yearly(conc, anom)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("assembled series",
		zap.Bool("monthly", monthly),
		zap.Int("records", len(records)),
		zap.Int("from", a.Range().From),
		zap.Int("to", a.Range().To),
	)
	return records, nil
}
