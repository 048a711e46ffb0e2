package qsr

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompose(t *testing.T) {
	Convey("Given a converted mixed-basis dataset", t, func() {
		h := Hilbert{Sites: 2}
		samples := Configs{Data: []float64{1, 1, -1, 1}, Sites: 2}
		ops, _ := resolveOperators(h, TrainingData{
			Samples: samples,
			Bases:   []Basis{"XX", "ZZ"},
		})
		ds, err := Convert(samples, ops)
		So(err, ShouldBeNil)

		Convey("Sampled indices are sorted and duplicates copied per occurrence", func() {
			b := Compose(ds, []int{1, 0, 1}, 4)
			So(b.Indices, ShouldResemble, []int{0, 1, 1})
			So(b.Secs, ShouldResemble, []int{0, 4, 5, 6})
			So(b.MaxLen, ShouldEqual, 4)
		})

		Convey("Every copied segment matches the dataset entry in original order", func() {
			b := Compose(ds, []int{1, 0}, 4)
			if testing.Verbose() {
				spew.Dump(b)
			}
			for n, i := range b.Indices {
				length := ds.Secs[i+1] - ds.Secs[i]
				So(b.Secs[n+1]-b.Secs[n], ShouldEqual, length)
				for k := 0; k < length; k++ {
					So(b.Mels[b.Secs[n]+k], ShouldEqual, ds.Mels[ds.Secs[i]+k])
					So(b.SigmaP.Row(b.Secs[n]+k), ShouldResemble, ds.SigmaP.Row(ds.Secs[i]+k))
				}
			}
		})

		Convey("Buffers are quantized to the padding granularity", func() {
			b := Compose(ds, []int{1, 0, 1}, 4)
			So(len(b.Mels), ShouldEqual, 8)
			So(len(b.SigmaP.Data), ShouldEqual, 16)
			So(len(b.Mels)%4, ShouldEqual, 0)
			So(len(b.Mels), ShouldBeGreaterThanOrEqualTo, b.Secs[len(b.Secs)-1])

			Convey("Slots past the true total stay zero", func() {
				for _, m := range b.Mels[b.Secs[len(b.Secs)-1]:] {
					So(m, ShouldEqual, complex(0, 0))
				}
			})
		})

		Convey("The default granularity dominates small batches", func() {
			b := Compose(ds, []int{0}, 128)
			So(len(b.Mels), ShouldEqual, 128)
		})
	})
}
