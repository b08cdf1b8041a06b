package metrics

import "math"

// RMSE is the root mean square anomaly difference in degrees.
type RMSE struct {
	name    string
	sumSq   float64
	samples int
}

func NewRMSE() *RMSE {
	return &RMSE{name: "rmse"}
}

func (r *RMSE) Name() string { return r.name }

func (r *RMSE) Observe(modeled, recorded float64) {
	d := modeled - recorded
	r.sumSq += d * d
	r.samples++
}

func (r *RMSE) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RMSE) Count() int { return r.samples }

func (r *RMSE) Reset() {
	r.sumSq = 0
	r.samples = 0
}

// Bias is the mean signed difference modeled - recorded. Positive values
// mean the model runs warm.
type Bias struct {
	name    string
	sum     float64
	samples int
}

func NewBias() *Bias {
	return &Bias{name: "bias"}
}

func (b *Bias) Name() string { return b.name }

func (b *Bias) Observe(modeled, recorded float64) {
	b.sum += modeled - recorded
	b.samples++
}

func (b *Bias) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *Bias) Count() int { return b.samples }

func (b *Bias) Reset() {
	b.sum = 0
	b.samples = 0
}
