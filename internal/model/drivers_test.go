package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/model"
)

func history() []climate.Record {
	rows := []struct {
		year    int
		conc    float64
		anomaly float64
	}{
		{1959, 315.98, 0.08},
		{1960, 316.91, -0.02},
		{1961, 317.64, 0.05},
		{1962, 318.45, 0.03},
		{1963, 318.99, 0.06},
	}
	records := make([]climate.Record, len(rows))
	for i, r := range rows {
		rec, err := climate.NewRecord(climate.Yearly(r.year), r.conc)
		Expect(err).NotTo(HaveOccurred())
		rec.SetRecorded(r.anomaly, model.DefaultReferenceTemp)
		records[i] = rec
	}
	return records
}

var _ = Describe("Replay", func() {
	var (
		eng     *model.Engine
		records []climate.Record
	)

	BeforeEach(func() {
		eng = model.New(model.DefaultParams())
		records = history()
	})

	It("leaves the seed record unmodeled and models every other record", func() {
		Expect(eng.Replay(records, 3.0)).To(Succeed())

		Expect(records[0].HasModeled()).To(BeFalse())
		for _, r := range records[1:] {
			Expect(r.HasModeled()).To(BeTrue())
		}
	})

	It("preserves order and recorded values", func() {
		before := history()
		Expect(eng.Replay(records, 3.0)).To(Succeed())

		for i := range records {
			Expect(records[i].Period).To(Equal(before[i].Period))
			Expect(records[i].Concentration).To(Equal(before[i].Concentration))
			Expect(*records[i].RecordedTemp).To(Equal(*before[i].RecordedTemp))
		}
	})

	It("reseeds every step from recorded history", func() {
		Expect(eng.Replay(records, 3.0)).To(Succeed())

		for i := 1; i < len(records); i++ {
			want, wantAnomaly, err := eng.TemperatureStep(
				*records[i-1].RecordedTemp, 3.0, records[i].Concentration, records[i-1].Concentration)
			Expect(err).NotTo(HaveOccurred())
			Expect(*records[i].ModeledTemp).To(Equal(want))
			Expect(*records[i].ModeledAnomaly).To(Equal(wantAnomaly))
		}
	})

	It("reproduces the first step of the reference scenario", func() {
		Expect(eng.Replay(records, 3.0)).To(Succeed())
		Expect(*records[1].ModeledTemp).To(BeNumerically("~", 13.99, 0.005))
		Expect(*records[1].ModeledAnomaly).To(BeNumerically("~", 0.09, 0.005))
	})

	It("is idempotent", func() {
		Expect(eng.Replay(records, 3.7)).To(Succeed())
		first := make([]float64, len(records))
		for i := 1; i < len(records); i++ {
			first[i] = *records[i].ModeledTemp
		}

		Expect(eng.Replay(records, 3.7)).To(Succeed())
		for i := 1; i < len(records); i++ {
			Expect(*records[i].ModeledTemp).To(Equal(first[i]))
		}
	})

	It("accepts empty and single-record lists", func() {
		Expect(eng.Replay(nil, 3.0)).To(Succeed())
		single := records[:1]
		Expect(eng.Replay(single, 3.0)).To(Succeed())
		Expect(single[0].HasModeled()).To(BeFalse())
	})

	It("rejects sensitivity outside the bounds without touching records", func() {
		Expect(eng.Replay(records, 5.5)).To(MatchError(climate.ErrSensitivityBounds))
		for _, r := range records {
			Expect(r.HasModeled()).To(BeFalse())
		}
	})

	It("fails on records without ground truth without partial writes", func() {
		records[3].RecordedAnomaly = nil
		records[3].RecordedTemp = nil

		err := eng.Replay(records, 3.0)
		Expect(err).To(MatchError(climate.ErrNoGroundTruth))

		var stepErr *climate.StepError
		Expect(err).To(BeAssignableToTypeOf(stepErr))
		for _, r := range records {
			Expect(r.HasModeled()).To(BeFalse())
		}
	})

	It("fails on non-positive concentration", func() {
		records[2].Concentration = 0
		Expect(eng.Replay(records, 3.0)).To(MatchError(climate.ErrDomain))
		for _, r := range records {
			Expect(r.HasModeled()).To(BeFalse())
		}
	})
})

var _ = Describe("Extrapolate", func() {
	var eng *model.Engine

	BeforeEach(func() {
		eng = model.New(model.DefaultParams())
	})

	It("produces ten records spanning 2021-2030", func() {
		out, err := eng.Extrapolate(10, 3.0, 10.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(10))

		for i, r := range out {
			Expect(r.Period).To(Equal(climate.Yearly(2021 + i)))
			Expect(r.HasModeled()).To(BeTrue())
			Expect(r.RecordedAnomaly).To(BeNil())
			Expect(r.RecordedTemp).To(BeNil())
		}
	})

	It("chains modeled state from one step to the next", func() {
		out, err := eng.Extrapolate(5, 3.0, 10.0)
		Expect(err).NotTo(HaveOccurred())

		priorConc := model.DefaultBaselineConcentration
		priorTemp := model.DefaultBaselineTemp
		for _, r := range out {
			conc, err := eng.ConcentrationStep(priorConc, 10.0)
			Expect(err).NotTo(HaveOccurred())
			temp, anomaly, err := eng.TemperatureStep(priorTemp, 3.0, conc, priorConc)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Concentration).To(Equal(conc))
			Expect(*r.ModeledTemp).To(Equal(temp))
			Expect(*r.ModeledAnomaly).To(Equal(anomaly))
			priorConc, priorTemp = conc, temp
		}
	})

	It("holds temperature flat with zero emissions", func() {
		out, err := eng.Extrapolate(3, 4.0, 0)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range out {
			Expect(r.Concentration).To(Equal(model.DefaultBaselineConcentration))
			Expect(*r.ModeledTemp).To(Equal(model.DefaultBaselineTemp))
		}
	})

	It("starts from a configured baseline", func() {
		p := model.DefaultParams()
		p.BaselineYear = 1990
		out, err := model.New(p).Extrapolate(2, 3.0, 5.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out[0].Period.Year).To(Equal(1991))
		Expect(out[1].Period.Year).To(Equal(1992))
	})

	DescribeTable("rejects invalid preconditions",
		func(n int, sensitivity, emissions float64, want error) {
			out, err := eng.Extrapolate(n, sensitivity, emissions)
			Expect(err).To(MatchError(want))
			Expect(out).To(BeNil())
		},
		Entry("zero periods", 0, 3.0, 10.0, climate.ErrDomain),
		Entry("negative periods", -3, 3.0, 10.0, climate.ErrDomain),
		Entry("low sensitivity", 10, 1.0, 10.0, climate.ErrSensitivityBounds),
		Entry("negative emissions", 10, 3.0, -1.0, climate.ErrDomain),
	)
})
