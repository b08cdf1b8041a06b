package metrics

import "math"

// PercentErrorOf is the per-period error |modeled - recorded| * 100.
func PercentErrorOf(modeled, recorded float64) float64 {
	return math.Abs(modeled-recorded) * 100
}

// PercentError is the mean of PercentErrorOf over all observed pairs.
type PercentError struct {
	name    string
	sum     float64
	samples int
}

func NewPercentError() *PercentError {
	return &PercentError{name: "percent_error"}
}

func (p *PercentError) Name() string { return p.name }

func (p *PercentError) Observe(modeled, recorded float64) {
	p.sum += PercentErrorOf(modeled, recorded)
	p.samples++
}

func (p *PercentError) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *PercentError) Count() int { return p.samples }

func (p *PercentError) Reset() {
	p.sum = 0
	p.samples = 0
}

// MaxError is the largest PercentErrorOf seen.
type MaxError struct {
	name    string
	max     float64
	samples int
}

func NewMaxError() *MaxError {
	return &MaxError{name: "max_error"}
}

func (m *MaxError) Name() string { return m.name }

func (m *MaxError) Observe(modeled, recorded float64) {
	m.max = math.Max(m.max, PercentErrorOf(modeled, recorded))
	m.samples++
}

func (m *MaxError) Value() float64 { return m.max }

func (m *MaxError) Count() int { return m.samples }

func (m *MaxError) Reset() {
	m.max = 0
	m.samples = 0
}
