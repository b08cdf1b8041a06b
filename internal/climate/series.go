package climate

import "math"

// Series holds parallel vectors for time-series display of concentration
// and temperature.
type Series struct {
	Labels        []string
	Concentration []float64
	Temperature   []float64
}

// Extract builds a Series from records. Temperature is the recorded value
// when present, the modeled value otherwise, and NaN when neither is set.
func Extract(records []Record) Series {
	s := Series{
		Labels:        make([]string, len(records)),
		Concentration: make([]float64, len(records)),
		Temperature:   make([]float64, len(records)),
	}
	for i := range records {
		r := &records[i]
		s.Labels[i] = r.Label()
		s.Concentration[i] = r.Concentration
		switch {
		case r.RecordedTemp != nil:
			s.Temperature[i] = *r.RecordedTemp
		case r.ModeledTemp != nil:
			s.Temperature[i] = *r.ModeledTemp
		default:
			s.Temperature[i] = math.NaN()
		}
	}
	return s
}

// AnomalyPairs are modeled and recorded anomalies for the same periods.
type AnomalyPairs struct {
	Labels   []string
	Modeled  []float64
	Recorded []float64
}

func (a AnomalyPairs) Len() int { return len(a.Labels) }

// Compare collects the periods that carry both a modeled and a recorded
// anomaly. The unmodeled seed record of a replay is skipped.
func Compare(records []Record) AnomalyPairs {
	var pairs AnomalyPairs
	for i := range records {
		r := &records[i]
		if r.ModeledAnomaly == nil || r.RecordedAnomaly == nil {
			continue
		}
		pairs.Labels = append(pairs.Labels, r.Label())
		pairs.Modeled = append(pairs.Modeled, *r.ModeledAnomaly)
		pairs.Recorded = append(pairs.Recorded, *r.RecordedAnomaly)
	}
	return pairs
}
