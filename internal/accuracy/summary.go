package accuracy

import (
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/metrics"
)

// Summary aggregates a report with the default metrics.
type Summary struct {
	Periods int                `json:"periods"`
	Average string             `json:"average"`
	Metrics map[string]float64 `json:"metrics"`
}

func (s *Summary) Mean() float64 { return s.Metrics["percent_error"] }

// Summarize computes the per-period report for records and aggregates it.
func Summarize(records []climate.Record) (*Report, *Summary, error) {
	r, err := ComputeError(records)
	if err != nil {
		return nil, nil, err
	}
	s, err := r.Summary()
	if err != nil {
		return nil, nil, err
	}
	return r, s, nil
}

func (r *Report) Summary() (*Summary, error) {
	if r.Len() == 0 {
		return nil, climate.ErrNoData
	}

	ms := metrics.Default()
	for _, e := range r.entries {
		for _, m := range ms {
			m.Observe(e.Modeled, e.Recorded)
		}
	}

	vals := metrics.Values(ms)
	return &Summary{
		Periods: r.Len(),
		Average: FormatPercent(vals["percent_error"]),
		Metrics: vals,
	}, nil
}
