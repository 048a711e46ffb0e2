package qsr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConvert(t *testing.T) {
	Convey("Given samples measured in mixed bases", t, func() {
		h := Hilbert{Sites: 2}
		samples := Configs{Data: []float64{1, 1, -1, 1}, Sites: 2}
		ops, err := resolveOperators(h, TrainingData{
			Samples: samples,
			Bases:   []Basis{"XX", "ZZ"},
		})
		So(err, ShouldBeNil)

		ds, err := Convert(samples, ops)
		So(err, ShouldBeNil)

		Convey("Offsets are non-decreasing, start at zero and end at the true length", func() {
			So(ds.Secs[0], ShouldEqual, 0)
			So(ds.Secs[1], ShouldEqual, 4)
			So(ds.Secs[2], ShouldEqual, 5)
			for i := 1; i < len(ds.Secs); i++ {
				So(ds.Secs[i], ShouldBeGreaterThanOrEqualTo, ds.Secs[i-1])
			}
		})

		Convey("The maximum segment length is tracked", func() {
			So(ds.MaxLen, ShouldEqual, 4)
		})

		Convey("Exactly MaxLen zero-coefficient rows pad the tail", func() {
			trueLen := ds.Secs[ds.Records()]
			So(len(ds.Mels), ShouldEqual, trueLen+ds.MaxLen)
			So(len(ds.SigmaP.Data), ShouldEqual, (trueLen+ds.MaxLen)*2)
			for _, m := range ds.Mels[trueLen:] {
				So(m, ShouldEqual, complex(0, 0))
			}
		})

		Convey("The identity-basis record round-trips its sample", func() {
			start := ds.Secs[1]
			So(ds.SigmaP.Row(start), ShouldResemble, []float64{-1, 1})
			So(real(ds.Mels[start]), ShouldAlmostEqual, 1)
		})
	})

	Convey("Mismatched sample and basis counts fail fast", t, func() {
		h := Hilbert{Sites: 1}
		op, _ := BuildRotation(h, "Z")
		samples := Configs{Data: []float64{1, -1}, Sites: 1}

		_, err := Convert(samples, []*RotationOperator{op})
		So(err, ShouldNotBeNil)
	})

	Convey("An empty dataset fails", t, func() {
		_, err := Convert(Configs{Sites: 1}, nil)
		So(err, ShouldNotBeNil)
	})
}
