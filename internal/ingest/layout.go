// Package ingest decodes NOAA-style CSV tables into series rows.
package ingest

import "fmt"

// NoColumn marks a layout column that the table does not have.
const NoColumn = -1

// Layout describes where a table keeps its period and value.
type Layout struct {
	// YearColumn holds the year, or the packed YYYYMM period when Packed is set.
	YearColumn  int  `yaml:"year_column"`
	MonthColumn int  `yaml:"month_column"`
	ValueColumn int  `yaml:"value_column"`
	Packed      bool `yaml:"packed"`
	// SkipLines drops that many leading records before header detection.
	SkipLines int       `yaml:"skip_lines"`
	Missing   []float64 `yaml:"missing,omitempty"`
}

// AnnualCO2Layout matches co2_annmean_mlo.csv: year,mean,unc.
func AnnualCO2Layout() Layout {
	return Layout{YearColumn: 0, MonthColumn: NoColumn, ValueColumn: 1}
}

// MonthlyCO2Layout matches co2_mm_mlo.csv, whose monthly mean is the fourth
// of eight columns.
func MonthlyCO2Layout() Layout {
	return Layout{YearColumn: 0, MonthColumn: 1, ValueColumn: 3, Missing: []float64{-99.99}}
}

// AnnualAnomalyLayout matches the yearly anomaly table: five title lines, then Year,Value.
func AnnualAnomalyLayout() Layout {
	return Layout{YearColumn: 0, MonthColumn: NoColumn, ValueColumn: 1, SkipLines: 5, Missing: []float64{-999}}
}

// MonthlyAnomalyLayout matches the monthly anomaly table keyed by YYYYMM.
func MonthlyAnomalyLayout() Layout {
	l := AnnualAnomalyLayout()
	l.Packed = true
	return l
}

func (l Layout) Validate() error {
	if l.YearColumn < 0 || l.ValueColumn < 0 {
		return fmt.Errorf("%w: year and value columns are required", ErrLayout)
	}
	if l.MonthColumn < NoColumn {
		return fmt.Errorf("%w: month column %d", ErrLayout, l.MonthColumn)
	}
	if l.Packed && l.MonthColumn != NoColumn {
		return fmt.Errorf("%w: packed periods carry their own month", ErrLayout)
	}
	if l.SkipLines < 0 {
		return fmt.Errorf("%w: negative skip_lines", ErrLayout)
	}
	return nil
}

func (l Layout) width() int {
	w := l.YearColumn
	if l.MonthColumn > w {
		w = l.MonthColumn
	}
	if l.ValueColumn > w {
		w = l.ValueColumn
	}
	return w + 1
}

func (l Layout) isMissing(v float64) bool {
	for _, m := range l.Missing {
		if v == m {
			return true
		}
	}
	return false
}
