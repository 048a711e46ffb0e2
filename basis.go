// basis.go
package qsr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
Basis is a measurement-basis descriptor: one rotation label per site.
Recognized labels are 'X' and 'Y' for the two single-qubit rotations and
'Z' or 'I' for no rotation. A Basis is immutable and compared by value,
which makes it usable as a cache key.
*/
type Basis string

var (
	// uX is the Hadamard-like rotation into the X eigenbasis.
	uX = mat.NewCDense(2, 2, scaleC(1/math.Sqrt2, []complex128{
		1, 1,
		1, -1,
	}))
	// uY rotates into the Y eigenbasis.
	uY = mat.NewCDense(2, 2, scaleC(1/math.Sqrt2, []complex128{
		1, -1i,
		1, 1i,
	}))
)

func scaleC(f float64, v []complex128) []complex128 {
	for i := range v {
		v[i] *= complex(f, 0)
	}
	return v
}

/*
RotationOperator is the composite local unitary implied by a Basis: a
tensor product of single-site rotations, each acting non-trivially on
one site only. Sites carrying the identity are not stored at all, so
the connected-configuration count is 2^(number of rotated sites).
*/
type RotationOperator struct {
	hilbert Hilbert
	sites   []int
	terms   []*mat.CDense
}

/*
BuildRotation compiles a basis descriptor into an explicit rotation
operator by multiplying in one sparse single-site term per non-identity
label.
*/
func BuildRotation(h Hilbert, basis Basis) (*RotationOperator, error) {
	if len(basis) != h.Sites {
		return nil, fmt.Errorf("basis %q has %d labels for %d sites", basis, len(basis), h.Sites)
	}
	op := &RotationOperator{hilbert: h}
	for site, label := range []byte(basis) {
		switch label {
		case 'X':
			op.mul(site, uX)
		case 'Y':
			op.mul(site, uY)
		case 'Z', 'I':
		default:
			return nil, fmt.Errorf("unrecognized basis label %q in %q", string(label), basis)
		}
	}
	return op, nil
}

// mul multiplies a single-site unitary into the operator. Sites are
// disjoint, so the product is a Kronecker product.
func (op *RotationOperator) mul(site int, u *mat.CDense) {
	op.sites = append(op.sites, site)
	op.terms = append(op.terms, u)
}

/*
Connected returns, for the operator row indexed by config, every
configuration with a nonzero matrix entry together with its complex
coefficient. The count is operator-dependent and must be read per call.
*/
func (op *RotationOperator) Connected(config []float64) (Configs, []complex128) {
	out := Configs{Sites: op.hilbert.Sites}
	var mels []complex128

	row := make([]float64, len(config))
	copy(row, config)

	var expand func(i int, coeff complex128)
	expand = func(i int, coeff complex128) {
		if i == len(op.sites) {
			out.Data = append(out.Data, row...)
			mels = append(mels, coeff)
			return
		}
		site := op.sites[i]
		r := localIndex(config[site])
		for c := 0; c < LocalDim; c++ {
			v := op.terms[i].At(r, c)
			if v == 0 {
				continue
			}
			row[site] = LocalStates[c]
			expand(i+1, coeff*v)
		}
		row[site] = config[site]
	}
	expand(0, 1)

	return out, mels
}

/*
resolveOperators normalizes the basis collection of a training set into
prebuilt rotation operators, one per record. Label descriptors are
compiled through a cache keyed by descriptor value, since measurement
datasets typically reuse a small set of distinct bases. The cache is
scoped to this call; there is no global mutable state.
*/
func resolveOperators(h Hilbert, data TrainingData) ([]*RotationOperator, error) {
	switch {
	case data.Operators != nil && data.Bases != nil:
		return nil, fmt.Errorf("training data carries both label bases and prebuilt operators")
	case data.Operators != nil:
		return data.Operators, nil
	case data.Bases != nil:
		cache := make(map[Basis]*RotationOperator)
		ops := make([]*RotationOperator, len(data.Bases))
		for i, basis := range data.Bases {
			op, ok := cache[basis]
			if !ok {
				var err error
				op, err = BuildRotation(h, basis)
				if err != nil {
					return nil, err
				}
				cache[basis] = op
			}
			ops[i] = op
		}
		return ops, nil
	default:
		return nil, fmt.Errorf("training data carries neither label bases nor prebuilt operators")
	}
}
