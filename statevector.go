// statevector.go
package qsr

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
)

/*
DenseState is the model's full state vector over the entire
configuration space, normalized to unit norm. Building one enumerates
every configuration, so like NLL it is a small-system diagnostic only.
*/
type DenseState struct {
	Vector []complex128
}

// ToDense evaluates the model on every configuration and normalizes.
func ToDense(state VariationalState, h Hilbert) *DenseState {
	logPsi := state.LogAmp(state.Parameters(), h.AllConfigs())

	vec := make([]complex128, len(logPsi))
	var norm float64
	for i, v := range logPsi {
		vec[i] = cmplx.Exp(v)
		a := cmplx.Abs(vec[i])
		norm += a * a
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range vec {
		vec[i] *= scale
	}
	return &DenseState{Vector: vec}
}

// Fidelity returns |<this|other>| against a reference state vector,
// with both sides normalized.
func (ds *DenseState) Fidelity(other []complex128) float64 {
	var dot complex128
	var na, nb float64
	for i, a := range ds.Vector {
		b := other[i]
		dot += cmplx.Conj(a) * b
		na += real(a)*real(a) + imag(a)*imag(a)
		nb += real(b)*real(b) + imag(b)*imag(b)
	}
	return cmplx.Abs(dot) / math.Sqrt(na*nb)
}

/*
Measure simulates one projective measurement of the dense state:
probabilities are the squared moduli of the amplitudes, and the
returned value is the index of the configuration the state collapses
to.
*/
func (ds *DenseState) Measure(rng *rand.Rand) int {
	n := len(ds.Vector)
	if n == 0 {
		return -1
	}

	probs := make([]float64, n)
	total := 0.0
	for i, amplitude := range ds.Vector {
		p := cmplx.Abs(amplitude)
		p *= p
		probs[i] = p
		total += p
	}

	r := rng.Float64() * total
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if r <= cumulative {
			return i
		}
	}
	return n - 1
}
