package model_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/model"
)

var _ = Describe("Engine", func() {
	var eng *model.Engine

	BeforeEach(func() {
		eng = model.New(model.DefaultParams())
	})

	Describe("ConcentrationStep", func() {
		It("adds the airborne fraction of emissions", func() {
			c, err := eng.ConcentrationStep(414.24, 10.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNumerically("~", 416.20, 0.01))
		})

		It("is non-decreasing and fixed at zero emissions", func() {
			for _, p := range []float64{0, 1, 280, 414.24, 1000} {
				for _, e := range []float64{0, 0.5, 10, 50} {
					c, err := eng.ConcentrationStep(p, e)
					Expect(err).NotTo(HaveOccurred())
					Expect(c).To(BeNumerically(">=", p))
				}
				c, err := eng.ConcentrationStep(p, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(c).To(Equal(p))
			}
		})

		DescribeTable("rejects values outside the domain",
			func(prior, emissions float64) {
				_, err := eng.ConcentrationStep(prior, emissions)
				Expect(err).To(MatchError(climate.ErrDomain))
			},
			Entry("negative prior", -1.0, 10.0),
			Entry("negative emissions", 400.0, -0.1),
			Entry("NaN emissions", 400.0, math.NaN()),
			Entry("infinite prior", math.Inf(1), 1.0),
		)
	})

	Describe("TemperatureStep", func() {
		It("matches the reference scenario", func() {
			temp, anomaly, err := eng.TemperatureStep(13.98, 3.0, 316.91, 315.98)
			Expect(err).NotTo(HaveOccurred())
			Expect(temp).To(BeNumerically("~", 13.99, 0.005))
			Expect(anomaly).To(BeNumerically("~", 0.09, 0.005))
		})

		It("reports the anomaly against the reference temperature", func() {
			for _, s := range []float64{2.0, 3.3, 5.0} {
				temp, anomaly, err := eng.TemperatureStep(14.5, s, 420, 400)
				Expect(err).NotTo(HaveOccurred())
				Expect(anomaly).To(Equal(temp - model.DefaultReferenceTemp))
			}
		})

		It("leaves temperature unchanged when concentration is unchanged", func() {
			temp, _, err := eng.TemperatureStep(14.2, 4.0, 350, 350)
			Expect(err).NotTo(HaveOccurred())
			Expect(temp).To(Equal(14.2))
		})

		It("warms by the sensitivity per doubling", func() {
			temp, _, err := eng.TemperatureStep(14.0, 3.0, 560, 280)
			Expect(err).NotTo(HaveOccurred())
			Expect(temp).To(BeNumerically("~", 17.0, 1e-12))
		})

		DescribeTable("rejects invalid arguments",
			func(sensitivity, newConc, priorConc float64, want error) {
				_, _, err := eng.TemperatureStep(14.0, sensitivity, newConc, priorConc)
				Expect(err).To(MatchError(want))
			},
			Entry("sensitivity below range", 1.9, 400.0, 399.0, climate.ErrSensitivityBounds),
			Entry("sensitivity above range", 5.1, 400.0, 399.0, climate.ErrSensitivityBounds),
			Entry("zero new concentration", 3.0, 0.0, 399.0, climate.ErrDomain),
			Entry("zero prior concentration", 3.0, 400.0, 0.0, climate.ErrDomain),
			Entry("negative concentration", 3.0, -400.0, 399.0, climate.ErrDomain),
		)
	})

	Describe("Params", func() {
		It("validates the defaults", func() {
			Expect(model.DefaultParams().Validate()).To(Succeed())
		})

		It("rejects inverted sensitivity bounds", func() {
			p := model.DefaultParams()
			p.SensitivityMin, p.SensitivityMax = 5, 2
			Expect(p.Validate()).NotTo(Succeed())
		})

		It("threads custom constants into the steps", func() {
			p := model.DefaultParams()
			p.ReferenceTemp = 14.0
			p.AirborneFraction = 1.0
			p.GtCPerPPM = 2.0
			custom := model.New(p)

			c, err := custom.ConcentrationStep(400, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(405.0))

			temp, anomaly, err := custom.TemperatureStep(15.0, 3.0, 400, 400)
			Expect(err).NotTo(HaveOccurred())
			Expect(temp).To(Equal(15.0))
			Expect(anomaly).To(BeNumerically("~", 1.0, 1e-12))
		})
	})
})
