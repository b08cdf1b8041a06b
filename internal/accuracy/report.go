// Package accuracy compares replayed model output against recorded history.
package accuracy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/metrics"
)

// PeriodError is the error of one modeled period.
type PeriodError struct {
	Period   climate.Period
	Label    string
	Modeled  float64
	Recorded float64
	Value    float64
}

// Report is an insertion-ordered mapping from period label to error.
type Report struct {
	entries []PeriodError
	index   map[string]int
}

// ComputeError returns |modeled - recorded| * 100 of the anomaly for every
// record after the first. It fails if any of those records lacks modeled or
// recorded values.
func ComputeError(records []climate.Record) (*Report, error) {
	r := &Report{index: make(map[string]int)}
	if len(records) < 2 {
		return r, nil
	}

	r.entries = make([]PeriodError, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := &records[i]
		if rec.ModeledAnomaly == nil {
			return nil, &climate.StepError{Index: i, Period: rec.Period, Wrapped: climate.ErrNotModeled}
		}
		if rec.RecordedAnomaly == nil {
			return nil, &climate.StepError{Index: i, Period: rec.Period, Wrapped: climate.ErrNoGroundTruth}
		}

		label := rec.Label()
		if _, dup := r.index[label]; dup {
			return nil, fmt.Errorf("%w: duplicate period %s", climate.ErrOrder, label)
		}
		modeled, recorded := *rec.ModeledAnomaly, *rec.RecordedAnomaly
		r.index[label] = len(r.entries)
		r.entries = append(r.entries, PeriodError{
			Period:   rec.Period,
			Label:    label,
			Modeled:  modeled,
			Recorded: recorded,
			Value:    metrics.PercentErrorOf(modeled, recorded),
		})
	}
	return r, nil
}

func (r *Report) Len() int { return len(r.entries) }

// Entries returns a copy of the per-period errors in input order.
func (r *Report) Entries() []PeriodError {
	out := make([]PeriodError, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Report) Labels() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Label
	}
	return out
}

func (r *Report) Values() []float64 {
	out := make([]float64, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Value
	}
	return out
}

func (r *Report) Get(label string) (float64, bool) {
	i, ok := r.index[label]
	if !ok {
		return 0, false
	}
	return r.entries[i].Value, true
}

// Map returns the errors keyed by label. Iteration order is not preserved;
// use Entries for ordered access.
func (r *Report) Map() map[string]float64 {
	out := make(map[string]float64, len(r.entries))
	for _, e := range r.entries {
		out[e.Label] = e.Value
	}
	return out
}

// Mean is the arithmetic mean of all errors.
func (r *Report) Mean() (float64, error) {
	if len(r.entries) == 0 {
		return 0, climate.ErrNoData
	}
	m := metrics.NewPercentError()
	for _, e := range r.entries {
		m.Observe(e.Modeled, e.Recorded)
	}
	return m.Value(), nil
}

// AveragePercentError is the mean error rendered as a percentage rounded to
// two decimals, e.g. "8.27%".
func AveragePercentError(records []climate.Record) (string, error) {
	r, err := ComputeError(records)
	if err != nil {
		return "", err
	}
	mean, err := r.Mean()
	if err != nil {
		return "", err
	}
	return FormatPercent(mean), nil
}

// FormatPercent rounds v to two decimals and prints it with the shortest
// representation, keeping at least one fractional digit.
func FormatPercent(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s + "%"
}
