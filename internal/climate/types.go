package climate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Period identifies a record's place in its series. Month is zero for
// yearly records.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

func Yearly(year int) Period { return Period{Year: year} }

func Monthly(year, month int) Period { return Period{Year: year, Month: month} }

func (p Period) HasMonth() bool { return p.Month != 0 }

func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 0 && p.Month <= 12
}

// Label renders the period as "YYYY" or "YYYY, M".
func (p Period) Label() string {
	if p.HasMonth() {
		return fmt.Sprintf("%d, %d", p.Year, p.Month)
	}
	return strconv.Itoa(p.Year)
}

func (p Period) String() string { return p.Label() }

// Key packs the period into a sortable integer (YYYYMM, month 00 for years).
func (p Period) Key() int { return p.Year*100 + p.Month }

func (p Period) Before(q Period) bool { return p.Key() < q.Key() }

// Next returns the period immediately following p at the same granularity.
func (p Period) Next() Period {
	if !p.HasMonth() {
		return Period{Year: p.Year + 1}
	}
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// ParsePeriod accepts "YYYY", "YYYY-M" or "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	yearPart, monthPart, hasMonth := strings.Cut(s, "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	p := Period{Year: year}
	if hasMonth {
		month, err := strconv.Atoi(monthPart)
		if err != nil || month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		p.Month = month
	}
	if !p.Valid() {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// Record is one period of climate data. Concentration is fixed at creation;
// the recorded fields are filled during assembly and the modeled fields by
// the recurrence engine. Nil means unset.
type Record struct {
	Period          Period   `json:"period"`
	Concentration   float64  `json:"concentration"`
	RecordedAnomaly *float64 `json:"recorded_anomaly,omitempty"`
	RecordedTemp    *float64 `json:"recorded_temp,omitempty"`
	ModeledTemp     *float64 `json:"modeled_temp,omitempty"`
	ModeledAnomaly  *float64 `json:"modeled_anomaly,omitempty"`
}

func NewRecord(p Period, concentration float64) (Record, error) {
	if !p.Valid() {
		return Record{}, fmt.Errorf("%w: %+v", ErrInvalidPeriod, p)
	}
	if concentration < 0 || math.IsNaN(concentration) || math.IsInf(concentration, 0) {
		return Record{}, fmt.Errorf("%w: concentration %v at %s", ErrDomain, concentration, p)
	}
	return Record{Period: p, Concentration: concentration}, nil
}

func (r *Record) HasMonth() bool { return r.Period.HasMonth() }

func (r *Record) Label() string { return r.Period.Label() }

func (r *Record) HasRecorded() bool { return r.RecordedAnomaly != nil && r.RecordedTemp != nil }

func (r *Record) HasModeled() bool { return r.ModeledAnomaly != nil && r.ModeledTemp != nil }

// SetRecorded stores the recorded anomaly and the absolute temperature
// derived from it, rounded to two decimals.
func (r *Record) SetRecorded(anomaly, referenceTemp float64) {
	temp := Round2(referenceTemp + anomaly)
	r.RecordedAnomaly = &anomaly
	r.RecordedTemp = &temp
}

func (r *Record) SetModeled(temp, anomaly float64) {
	r.ModeledTemp = &temp
	r.ModeledAnomaly = &anomaly
}

func (r *Record) ClearModeled() {
	r.ModeledTemp = nil
	r.ModeledAnomaly = nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckOrder verifies that records share one granularity and that their
// periods are strictly increasing with no gaps.
func CheckOrder(records []Record) error {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Period, records[i].Period
		if prev.HasMonth() != cur.HasMonth() {
			return fmt.Errorf("%w: mixed granularity at %s", ErrOrder, cur)
		}
		if cur != prev.Next() {
			return fmt.Errorf("%w: %s follows %s", ErrOrder, cur, prev)
		}
	}
	return nil
}

// Window returns up to n records starting at the record for start. The
// returned slice aliases records.
func Window(records []Record, start Period, n int) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", n)
	}
	for i := range records {
		if records[i].Period == start {
			end := i + n
			if end > len(records) {
				end = len(records)
			}
			return records[i:end], nil
		}
	}
	return nil, fmt.Errorf("%w: %s not in series", ErrInvalidPeriod, start)
}
