package qsr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSumSections(t *testing.T) {
	Convey("Given a flat array with section offsets", t, func() {
		arr := []complex128{1, 2, 3, 4, 5}

		Convey("Each section reduces to its sum", func() {
			out := SumSections(arr, []int{0, 2, 5})
			So(out, ShouldResemble, []complex128{3, 12})
		})

		Convey("Empty sections reduce to zero", func() {
			out := SumSections(arr, []int{0, 0, 3, 3})
			So(out, ShouldResemble, []complex128{0, 6, 0})
		})

		Convey("Entries past the final offset are never read", func() {
			out := SumSections(arr, []int{0, 2})
			So(out, ShouldResemble, []complex128{3})
		})
	})
}

func TestGradientPhases(t *testing.T) {
	Convey("Given a one-site linear model with identity-basis data", t, func() {
		// log_amplitude(theta, x) = theta * x, theta = 0: uniform amplitudes.
		model := newLinearModel(
			NewLeaf(0),
			Configs{Data: []float64{1, 1}, Sites: 1},
		)
		samples := Configs{Data: []float64{1, -1}, Sites: 1}
		ops, _ := resolveOperators(Hilbert{Sites: 1}, TrainingData{
			Samples: samples,
			Bases:   []Basis{"I", "I"},
		})
		ds, _ := Convert(samples, ops)
		batch := Compose(ds, []int{0, 1}, 2)

		Convey("The negative phase is the mean sample gradient", func() {
			grad := avgGradient(model, model.Parameters(), model.Samples(), Solo{})
			So(grad["w"].(*Leaf).Data[0], ShouldEqual, complex(1, 0))
		})

		Convey("The positive phase reduces each segment to its own sample", func() {
			mean, grad := gradLocalValueRotated(model, model.Parameters(), batch, Solo{})
			// Both segments hold coefficient 1 times exp(0).
			So(real(mean), ShouldAlmostEqual, 0)
			So(real(grad["w"].(*Leaf).Data[0]), ShouldAlmostEqual, 0)
		})

		Convey("The composed loss gradient matches the hand computation", func() {
			neg := avgGradient(model, model.Parameters(), model.Samples(), Solo{})
			_, pos := gradLocalValueRotated(model, model.Parameters(), batch, Solo{})
			loss := composeGrads(neg, pos)

			// 2 * conj(mean(model samples) - mean(data)) = 2 * (1 - 0).
			So(real(loss["w"].(*Leaf).Data[0]), ShouldAlmostEqual, 2)
			So(imag(loss["w"].(*Leaf).Data[0]), ShouldAlmostEqual, 0)
		})
	})
}

func TestProjectReal(t *testing.T) {
	Convey("Given an update tree with a complex raw gradient", t, func() {
		update := Branch{
			"re": NewLeaf(1 + 2i),
			"cx": NewLeaf(3 + 4i),
		}
		params := Branch{
			"re": NewRealLeaf(0.5),
			"cx": NewLeaf(0.5),
		}

		projected := projectReal(update, params)

		Convey("Real-declared leaves lose their imaginary part", func() {
			So(projected["re"].(*Leaf).Data[0], ShouldEqual, complex(1, 0))
			So(projected["re"].(*Leaf).Real, ShouldBeTrue)
		})

		Convey("Complex leaves pass through unchanged", func() {
			So(projected["cx"].(*Leaf).Data[0], ShouldEqual, complex(3, 4))
		})
	})
}
