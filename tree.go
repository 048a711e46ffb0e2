// tree.go
package qsr

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// ErrNotImplemented signals a request for a feature this package
// deliberately does not support.
var ErrNotImplemented = fmt.Errorf("not implemented")

/*
Node is one vertex of a parameter tree: either a Branch of named
subtrees or a Leaf holding a flat numeric array.

Parameter trees and their gradient counterparts are required to share
structure (same branch names, same leaf lengths); this is an interface
contract, not something checked dynamically at every operation.
*/
type Node interface {
	isNode()
}

// Branch maps names to subtrees or leaves.
type Branch map[string]Node

/*
Leaf holds a flat numeric array. Data is always stored as complex128;
Real marks leaves whose declared dtype is real, which makes the final
update projection discard their imaginary parts.
*/
type Leaf struct {
	Data []complex128
	Real bool
}

func (Branch) isNode() {}
func (*Leaf) isNode()  {}

// NewLeaf builds a complex-tagged leaf from values.
func NewLeaf(data ...complex128) *Leaf {
	return &Leaf{Data: data}
}

// NewRealLeaf builds a real-tagged leaf from values.
func NewRealLeaf(data ...float64) *Leaf {
	l := &Leaf{Data: make([]complex128, len(data)), Real: true}
	for i, v := range data {
		l.Data[i] = complex(v, 0)
	}
	return l
}

// MapLeaves applies fn to every leaf, producing a same-shaped tree.
func MapLeaves(t Branch, fn func(*Leaf) *Leaf) Branch {
	out := make(Branch, len(t))
	for name, node := range t {
		switch n := node.(type) {
		case Branch:
			out[name] = MapLeaves(n, fn)
		case *Leaf:
			out[name] = fn(n)
		}
	}
	return out
}

// ZipLeaves applies fn to corresponding leaves of two same-shaped trees.
func ZipLeaves(a, b Branch, fn func(x, y *Leaf) *Leaf) Branch {
	out := make(Branch, len(a))
	for name, node := range a {
		switch n := node.(type) {
		case Branch:
			out[name] = ZipLeaves(n, b[name].(Branch), fn)
		case *Leaf:
			out[name] = fn(n, b[name].(*Leaf))
		}
	}
	return out
}

// CloneTree deep-copies a tree.
func CloneTree(t Branch) Branch {
	return MapLeaves(t, func(l *Leaf) *Leaf {
		data := make([]complex128, len(l.Data))
		copy(data, l.Data)
		return &Leaf{Data: data, Real: l.Real}
	})
}

// TreeConj conjugates every element of a tree.
func TreeConj(t Branch) Branch {
	return MapLeaves(t, func(l *Leaf) *Leaf {
		data := make([]complex128, len(l.Data))
		for i, v := range l.Data {
			data[i] = cmplx.Conj(v)
		}
		return &Leaf{Data: data, Real: l.Real}
	})
}

// TreeDot computes the elementwise dot product of two trees,
// interpreted as one long vector each.
func TreeDot(a, b Branch) complex128 {
	var sum complex128
	walkZip(a, b, func(x, y *Leaf) {
		for i := range x.Data {
			sum += x.Data[i] * y.Data[i]
		}
	})
	return sum
}

/*
TreeNorm computes the L-p vector norm of a tree, interpreted as one
long vector. Only p == 2 is implemented.
*/
func TreeNorm(t Branch, p int) (float64, error) {
	if p != 2 {
		return 0, fmt.Errorf("tree norm for p=%d: %w", p, ErrNotImplemented)
	}
	var sum float64
	walkLeaves(t, func(_ string, l *Leaf) {
		for _, v := range l.Data {
			sum += real(v)*real(v) + imag(v)*imag(v)
		}
	})
	return math.Sqrt(sum), nil
}

// walkLeaves visits leaves depth-first in sorted key order, so the
// visit order is deterministic across workers.
func walkLeaves(t Branch, fn func(path string, l *Leaf)) {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch n := t[name].(type) {
		case Branch:
			walkLeaves(n, func(path string, l *Leaf) {
				fn(name+"/"+path, l)
			})
		case *Leaf:
			fn(name, n)
		}
	}
}

func walkZip(a, b Branch, fn func(x, y *Leaf)) {
	for name, node := range a {
		switch n := node.(type) {
		case Branch:
			walkZip(n, b[name].(Branch), fn)
		case *Leaf:
			fn(n, b[name].(*Leaf))
		}
	}
}

// flattenTree packs all leaf values into one vector, in the
// deterministic walkLeaves order.
func flattenTree(t Branch) []complex128 {
	var vec []complex128
	walkLeaves(t, func(_ string, l *Leaf) {
		vec = append(vec, l.Data...)
	})
	return vec
}

// unflattenTree writes a flat vector back into a copy of the tree that
// produced it.
func unflattenTree(t Branch, vec []complex128) Branch {
	out := CloneTree(t)
	i := 0
	walkLeaves(out, func(_ string, l *Leaf) {
		copy(l.Data, vec[i:i+len(l.Data)])
		i += len(l.Data)
	})
	return out
}
