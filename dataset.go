// dataset.go
package qsr

import (
	"fmt"
)

/*
Dataset is the converted, segmented representation of a measurement
dataset: for record i, the connected configurations and their
coefficients occupy rows [Secs[i], Secs[i+1]) of the flat arrays.

The flat arrays carry MaxLen zero-valued trailing rows beyond Secs[N],
so a fixed-length extraction window of MaxLen rows starting at any
valid offset stays in bounds. The Dataset is built once at load time
and never mutated afterward.
*/
type Dataset struct {
	SigmaP Configs
	Mels   []complex128
	Secs   []int
	MaxLen int
}

// Records returns the number of measurement records in the dataset.
func (ds *Dataset) Records() int {
	return len(ds.Secs) - 1
}

/*
Convert expands every measurement record through its rotation operator
into the segmented flat representation. Buffers grow by amortized
append; the single zero pad block is attached after the pass.

Fails if the sample and basis counts disagree.
*/
func Convert(samples Configs, ops []*RotationOperator) (*Dataset, error) {
	n := samples.Rows()
	if n != len(ops) {
		return nil, fmt.Errorf("got %d samples but %d bases", n, len(ops))
	}
	if n == 0 {
		return nil, fmt.Errorf("empty training dataset")
	}

	ds := &Dataset{
		SigmaP: Configs{Sites: samples.Sites},
		Secs:   make([]int, n+1),
	}

	last := 0
	for i := 0; i < n; i++ {
		conn, mels := ops[i].Connected(samples.Row(i))
		ds.SigmaP.Data = append(ds.SigmaP.Data, conn.Data...)
		ds.Mels = append(ds.Mels, mels...)
		ds.Secs[i] = last
		last += len(mels)
		if len(mels) > ds.MaxLen {
			ds.MaxLen = len(mels)
		}
	}

	// Trailing slack: MaxLen zero rows past the true end.
	ds.SigmaP.Data = append(ds.SigmaP.Data, make([]float64, ds.MaxLen*samples.Sites)...)
	ds.Mels = append(ds.Mels, make([]complex128, ds.MaxLen)...)
	ds.Secs[n] = last

	return ds, nil
}
