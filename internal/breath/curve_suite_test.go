package breath_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"breathe/internal/breath"
)

func TestBreathSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Breath Curve Suite")
}

func boxParams() breath.Params {
	p := breath.DefaultParams()
	p.Durations = [4]float64{4, 4, 4, 4}
	return p
}

var _ = Describe("breath curves", func() {
	for _, kind := range breath.Kinds() {
		kind := kind

		Describe(string(kind), func() {
			var curve breath.Curve

			BeforeEach(func() {
				var err error
				curve, err = breath.New(kind, breath.DefaultParams())
				Expect(err).NotTo(HaveOccurred())
			})

			It("is deterministic across repeated and independent calls", func() {
				other, err := breath.New(kind, breath.DefaultParams())
				Expect(err).NotTo(HaveOccurred())

				for _, elapsed := range []float64{0, 0.1, 2.0, 7.77, 18.999, 1234.5} {
					a := curve.At(elapsed)
					b := curve.At(elapsed)
					c := other.At(elapsed)
					Expect(a).To(Equal(b), "repeated call diverged at t=%f", elapsed)
					Expect(a).To(Equal(c), "independent client diverged at t=%f", elapsed)
				}
			})

			It("reports mid-inhale at t=2s of the 4-7-8 cycle", func() {
				st := curve.At(2.0)
				Expect(st.Phase).To(Equal(breath.Inhale))
				Expect(st.RawProgress).To(BeNumerically("~", 0.5, 1e-12))
			})

			It("visits every phase in order exactly once per box cycle", func() {
				c, err := breath.New(kind, boxParams())
				Expect(err).NotTo(HaveOccurred())

				seen := []breath.Phase{}
				step := 0.001
				for elapsed := 0.0; elapsed < boxParams().TotalCycle(); elapsed += step {
					phase := c.At(elapsed).Phase
					if len(seen) == 0 || seen[len(seen)-1] != phase {
						seen = append(seen, phase)
					}
				}
				Expect(seen).To(Equal([]breath.Phase{
					breath.Inhale, breath.HoldIn, breath.Exhale, breath.HoldOut,
				}))
			})

			It("hands off inhale to hold-in without a progress gap", func() {
				c, err := breath.New(kind, boxParams())
				Expect(err).NotTo(HaveOccurred())

				before := c.At(4.0 - 1e-9)
				after := c.At(4.0)
				Expect(before.Phase).To(Equal(breath.Inhale))
				Expect(before.RawProgress).To(BeNumerically("~", 1.0, 1e-6))
				Expect(after.Phase).To(Equal(breath.HoldIn))
				Expect(after.RawProgress).To(BeNumerically("~", 1.0, 1e-6))
			})

			It("raw progress is non-decreasing within inhale", func() {
				prev := -1.0
				for elapsed := 0.0; elapsed < 4.0; elapsed += 0.001 {
					raw := curve.At(elapsed).RawProgress
					Expect(raw).To(BeNumerically(">=", prev))
					prev = raw
				}
			})

			It("sphere scale is non-increasing within exhale", func() {
				prev := curve.At(11.0).TargetSphereScale // exhale starts at t=11
				for elapsed := 11.0; elapsed < 19.0; elapsed += 0.001 {
					scale := curve.At(elapsed).TargetSphereScale
					Expect(scale).To(BeNumerically("<=", prev+1e-12))
					prev = scale
				}
			})

			It("keeps crystallization at zero strictly inside inhale and exhale", func() {
				for elapsed := 0.01; elapsed < 3.99; elapsed += 0.05 {
					Expect(curve.At(elapsed).Crystallization).To(BeZero())
				}
				for elapsed := 11.01; elapsed < 18.99; elapsed += 0.05 {
					Expect(curve.At(elapsed).Crystallization).To(BeZero())
				}
			})

			It("raises crystallization monotonically through hold-in to its end bound", func() {
				params := curve.Params()
				prev := -1.0
				for elapsed := 4.0; elapsed < 11.0; elapsed += 0.01 {
					cr := curve.At(elapsed).Crystallization
					Expect(cr).To(BeNumerically(">=", prev))
					Expect(cr).To(BeNumerically("<=", params.CrystalBounds[breath.HoldIn][1]))
					prev = cr
				}
				end := curve.At(11.0 - 1e-6).Crystallization
				Expect(end).To(BeNumerically("~", params.CrystalBounds[breath.HoldIn][1], 1e-3))
			})

			It("keeps the eased level continuous across phase boundaries", func() {
				for _, boundary := range []float64{4, 11, 19} {
					before := curve.At(boundary - 1e-7).EasedProgress
					after := curve.At(boundary + 1e-7).EasedProgress
					Expect(after).To(BeNumerically("~", before, 1e-4))
				}
			})
		})
	}
})
