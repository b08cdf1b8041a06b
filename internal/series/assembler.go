// Package series merges a CO2 concentration source and a temperature
// anomaly source into one ordered list of climate records.
//
// The merge is a period-keyed join: each accepted concentration row is
// matched with the anomaly row carrying the same period, and any period
// present on only one side is reported as an alignment failure. For inputs
// where both sources list the same periods in the same order this yields
// exactly the positional pairing of the Nth row of each source.
package series

import (
	"fmt"
	"math"

	"github.com/san-kum/climsim/internal/climate"
)

const (
	DefaultFrom          = 1959
	DefaultTo            = 2020
	DefaultReferenceTemp = 13.9
)

// ConcentrationRow is one decoded row of the concentration source. Month is
// zero for yearly data.
type ConcentrationRow struct {
	Year          int
	Month         int
	Concentration float64
}

// AnomalyRow is one decoded row of the anomaly source. Monthly rows carry
// their period packed as "YYYYMM" in Packed; yearly rows use Year.
type AnomalyRow struct {
	Year    int
	Packed  string
	Anomaly float64
}

// Period resolves the row's period, unpacking Packed when set.
func (r AnomalyRow) Period() (climate.Period, error) {
	if r.Packed != "" {
		return ParsePacked(r.Packed)
	}
	if r.Year <= 0 {
		return climate.Period{}, fmt.Errorf("%w: year %d", climate.ErrInvalidPeriod, r.Year)
	}
	return climate.Yearly(r.Year), nil
}

// Range is the inclusive span of accepted years.
type Range struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

func DefaultRange() Range {
	return Range{From: DefaultFrom, To: DefaultTo}
}

func (r Range) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

func (r Range) Validate() error {
	if r.From <= 0 || r.To < r.From {
		return fmt.Errorf("invalid period range [%d, %d]", r.From, r.To)
	}
	return nil
}

type Assembler struct {
	rng           Range
	referenceTemp float64
}

func New(rng Range, referenceTemp float64) *Assembler {
	return &Assembler{rng: rng, referenceTemp: referenceTemp}
}

func NewDefault() *Assembler {
	return New(DefaultRange(), DefaultReferenceTemp)
}

func (a *Assembler) Range() Range { return a.rng }

// Yearly assembles yearly records. Concentration rows must not carry a month.
func (a *Assembler) Yearly(conc []ConcentrationRow, anom []AnomalyRow) ([]climate.Record, error) {
	return a.assemble(conc, anom, false)
}

// Monthly assembles monthly records. Every row must resolve to a month; the
// month written onto each record is the one unpacked from the anomaly row.
func (a *Assembler) Monthly(conc []ConcentrationRow, anom []AnomalyRow) ([]climate.Record, error) {
	return a.assemble(conc, anom, true)
}

func (a *Assembler) assemble(conc []ConcentrationRow, anom []AnomalyRow, monthly bool) ([]climate.Record, error) {
	if err := a.rng.Validate(); err != nil {
		return nil, err
	}

	records, err := a.acceptConcentration(conc, monthly)
	if err != nil {
		return nil, err
	}

	anomalies, err := a.acceptAnomaly(anom, monthly)
	if err != nil {
		return nil, err
	}

	if len(records) != len(anomalies) {
		return nil, &climate.AlignmentError{
			Concentration: len(records),
			Anomaly:       len(anomalies),
			Reason:        "accepted row counts differ",
		}
	}

	for i := range records {
		p := records[i].Period
		v, ok := anomalies[p.Key()]
		if !ok {
			return nil, &climate.AlignmentError{Period: p, Reason: "no anomaly row for period"}
		}
		records[i].SetRecorded(v, a.referenceTemp)
	}

	return records, nil
}

func (a *Assembler) acceptConcentration(rows []ConcentrationRow, monthly bool) ([]climate.Record, error) {
	records := make([]climate.Record, 0, len(rows))
	for _, row := range rows {
		if !a.rng.Contains(row.Year) {
			continue
		}
		var p climate.Period
		if monthly {
			if row.Month < 1 || row.Month > 12 {
				return nil, fmt.Errorf("%w: concentration row %d month %d", climate.ErrInvalidPeriod, row.Year, row.Month)
			}
			p = climate.Monthly(row.Year, row.Month)
		} else {
			if row.Month != 0 {
				return nil, fmt.Errorf("%w: yearly concentration row %d has month %d", climate.ErrInvalidPeriod, row.Year, row.Month)
			}
			p = climate.Yearly(row.Year)
		}

		rec, err := climate.NewRecord(p, row.Concentration)
		if err != nil {
			return nil, err
		}
		if n := len(records); n > 0 && records[n-1].Period.Next() != p {
			return nil, fmt.Errorf("concentration source: %w: %s follows %s", climate.ErrOrder, p, records[n-1].Period)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (a *Assembler) acceptAnomaly(rows []AnomalyRow, monthly bool) (map[int]float64, error) {
	values := make(map[int]float64, len(rows))
	var last climate.Period
	for _, row := range rows {
		p, err := row.Period()
		if err != nil {
			return nil, err
		}
		if !a.rng.Contains(p.Year) {
			continue
		}
		if p.HasMonth() != monthly {
			return nil, fmt.Errorf("%w: anomaly row %s has wrong granularity", climate.ErrInvalidPeriod, p)
		}
		if math.IsNaN(row.Anomaly) || math.IsInf(row.Anomaly, 0) {
			return nil, fmt.Errorf("%w: anomaly %v at %s", climate.ErrDomain, row.Anomaly, p)
		}
		if !last.IsZero() && last.Next() != p {
			return nil, fmt.Errorf("anomaly source: %w: %s follows %s", climate.ErrOrder, p, last)
		}
		values[p.Key()] = row.Anomaly
		last = p
	}
	return values, nil
}
