package metrics

// Metric accumulates a statistic over (modeled, recorded) pairs.
type Metric interface {
	Name() string
	Observe(modeled, recorded float64)
	Value() float64
	Count() int
	Reset()
}

// Default returns the accuracy metrics reported for a replay.
func Default() []Metric {
	return []Metric{
		NewPercentError(),
		NewMaxError(),
		NewRMSE(),
		NewBias(),
	}
}

// Observe feeds every pair to every metric.
func Observe(ms []Metric, modeled, recorded []float64) {
	n := len(modeled)
	if len(recorded) < n {
		n = len(recorded)
	}
	for i := 0; i < n; i++ {
		for _, m := range ms {
			m.Observe(modeled[i], recorded[i])
		}
	}
}

// Values collects metric values by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
