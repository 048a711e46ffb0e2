// batch.go
package qsr

import (
	"sort"
)

/*
Batch is a self-contained copy of the segments belonging to one sampled
index subset. Its flat arrays are sized to the smallest multiple of the
padding granularity that holds the true copied length, so downstream
vectorized kernels only ever see a small set of quantized buffer
shapes. A Batch is owned by the step that composed it.
*/
type Batch struct {
	SigmaP  Configs
	Mels    []complex128
	Secs    []int
	MaxLen  int
	Indices []int
}

/*
Compose copies the segments of the sampled indices out of the dataset
into a freshly sized batch. Indices are processed in ascending sorted
order so the copy layout is monotone and reproducible; duplicates are
copied once per occurrence, since sampling is with replacement.
*/
func Compose(ds *Dataset, indices []int, granularity int) *Batch {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	total, maxLen := 0, 0
	for _, i := range sorted {
		l := ds.Secs[i+1] - ds.Secs[i]
		total += l
		if l > maxLen {
			maxLen = l
		}
	}

	// Quantize: pad up to a multiple of max(MaxLen, granularity) to
	// bound the number of distinct shapes downstream.
	factor := ds.MaxLen
	if granularity > factor {
		factor = granularity
	}
	padded := factor * ((total + factor - 1) / factor)

	b := &Batch{
		SigmaP: Configs{
			Data:  make([]float64, padded*ds.SigmaP.Sites),
			Sites: ds.SigmaP.Sites,
		},
		Mels:    make([]complex128, padded),
		Secs:    make([]int, len(sorted)+1),
		MaxLen:  maxLen,
		Indices: sorted,
	}

	last := 0
	stride := ds.SigmaP.Sites
	for n, i := range sorted {
		start, end := ds.Secs[i], ds.Secs[i+1]
		copy(b.SigmaP.Data[last*stride:], ds.SigmaP.Data[start*stride:end*stride])
		copy(b.Mels[last:], ds.Mels[start:end])
		last += end - start
		b.Secs[n+1] = last
	}

	return b
}
