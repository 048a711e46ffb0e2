// gradient.go
package qsr

import (
	"math"
	"math/cmplx"
)

/*
SumSections reduces a flat array into one value per section:

	out[i] = sum(arr[secs[i]:secs[i+1]])

secs must be non-decreasing and one longer than the number of sections.
Empty sections reduce to zero; entries past secs[len(secs)-1] (the
padding tail) are never read.
*/
func SumSections(arr []complex128, secs []int) []complex128 {
	out := make([]complex128, len(secs)-1)
	for i := range out {
		var sum complex128
		for j := secs[i]; j < secs[i+1]; j++ {
			sum += arr[j]
		}
		out[i] = sum
	}
	return out
}

/*
avgGradient is the negative phase: the parameter gradient of the mean
log-amplitude over the model's own samples, mean-reduced across the
worker group.
*/
func avgGradient(state VariationalState, params Branch, samples Configs, red Reducer) Branch {
	n := samples.Rows()
	cot := make([]complex128, n)
	w := complex(1/float64(n), 0)
	for i := range cot {
		cot[i] = w
	}
	return red.MeanTree(state.VJP(params, samples, cot))
}

/*
localValueRotated evaluates, per segment of the batch, the log of the
segment-reduced sum of mel * exp(logAmp). The exponentials are summed
directly, not in shifted log-space, matching the reference numerics in
the small-magnitude regime.
*/
func localValueRotated(state VariationalState, params Branch, b *Batch) ([]complex128, []complex128) {
	logPsi := state.LogAmp(params, b.SigmaP)
	vals := make([]complex128, len(b.Mels))
	for j, mel := range b.Mels {
		vals[j] = mel * cmplx.Exp(logPsi[j])
	}
	return vals, SumSections(vals, b.Secs)
}

/*
gradLocalValueRotated is the positive phase: the gradient of the mean
over segments of log(sum_j mel_j * exp(logAmp(sigma_j))), pulled back
through one vector-Jacobian product, plus the scalar mean itself. Both
are mean-reduced across the worker group.
*/
func gradLocalValueRotated(state VariationalState, params Branch, b *Batch, red Reducer) (complex128, Branch) {
	vals, sums := localValueRotated(state, params, b)
	nSec := complex(float64(len(sums)), 0)

	var mean complex128
	for _, s := range sums {
		mean += cmplx.Log(s)
	}
	mean = red.Mean(mean / nSec)

	// d/dp mean_i log S_i  ==  VJP with cotangent vals_j / (S_seg(j) * n).
	cot := make([]complex128, len(vals))
	for i := range sums {
		for j := b.Secs[i]; j < b.Secs[i+1]; j++ {
			cot[j] = vals[j] / (sums[i] * nSec)
		}
	}
	grad := red.MeanTree(state.VJP(params, b.SigmaP, cot))

	return mean, grad
}

/*
composeGrads combines the two phases into the loss gradient,

	2 * conj(neg - pos)

elementwise across the tree; the Wirtinger gradient of the
cross-entropy reconstruction loss.
*/
func composeGrads(neg, pos Branch) Branch {
	return ZipLeaves(neg, pos, func(x, y *Leaf) *Leaf {
		data := make([]complex128, len(x.Data))
		for i := range data {
			data[i] = 2 * cmplx.Conj(x.Data[i]-y.Data[i])
		}
		return &Leaf{Data: data, Real: x.Real}
	})
}

/*
projectReal discards the imaginary part of update leaves whose target
parameter leaf is declared real; complex leaves pass through unchanged.
*/
func projectReal(update, params Branch) Branch {
	return ZipLeaves(update, params, func(u, p *Leaf) *Leaf {
		if !p.Real {
			return u
		}
		data := make([]complex128, len(u.Data))
		for i, v := range u.Data {
			data[i] = complex(real(v), 0)
		}
		return &Leaf{Data: data, Real: true}
	})
}

// localValueRotatedAmplitude is the NLL kernel: per segment,
// log |sum_j mel_j * exp(logAmp(sigma_j))|^2.
func localValueRotatedAmplitude(state VariationalState, params Branch, b *Batch) []float64 {
	_, sums := localValueRotated(state, params, b)
	out := make([]float64, len(sums))
	for i, s := range sums {
		out[i] = 2 * math.Log(cmplx.Abs(s))
	}
	return out
}
