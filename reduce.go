// reduce.go
package qsr

import (
	"sync"
)

/*
Reducer is the collective mean-reduce capability the gradient engine
depends on: an order-independent, blocking mean over the worker group's
local gradients and scalar means. The engine never sees a transport,
only this contract. Rank and Size identify the local worker inside the
group, which the driver uses to split its RNG stream.
*/
type Reducer interface {
	Rank() int
	Size() int

	// MeanTree averages a gradient tree elementwise across the group.
	MeanTree(g Branch) Branch

	// Mean averages a scalar across the group.
	Mean(v complex128) complex128

	// MeanFloat averages a real scalar across the group.
	MeanFloat(v float64) float64
}

// Solo is the single-worker reducer: every mean is the identity.
type Solo struct{}

func (Solo) Rank() int                    { return 0 }
func (Solo) Size() int                    { return 1 }
func (Solo) MeanTree(g Branch) Branch     { return g }
func (Solo) Mean(v complex128) complex128 { return v }
func (Solo) MeanFloat(v float64) float64  { return v }

/*
Group is an in-process worker group for a fixed number of members, each
running its own driver on its own goroutine. Members obtain their
Reducer handle via Member; a reduction blocks until every member has
contributed, then all members observe the same mean.

The barrier is generational so the group can be reused for every
reduction of every step without reallocation races.
*/
type Group struct {
	n int

	mu         sync.Mutex
	cond       *sync.Cond
	arrived    int
	generation uint64
	sum        []complex128
	result     []complex128
}

// NewGroup creates a worker group of size n.
func NewGroup(n int) *Group {
	g := &Group{n: n}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Member returns the reducer handle for one worker rank.
func (g *Group) Member(rank int) Reducer {
	return &member{group: g, rank: rank}
}

// allReduce sums vectors elementwise across all members and hands the
// mean back to every caller. Blocks until the group is complete.
func (g *Group) allReduce(vec []complex128) []complex128 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.arrived == 0 {
		g.sum = make([]complex128, len(vec))
	}
	for i, v := range vec {
		g.sum[i] += v
	}
	g.arrived++

	gen := g.generation
	if g.arrived == g.n {
		for i := range g.sum {
			g.sum[i] /= complex(float64(g.n), 0)
		}
		g.result = g.sum
		g.arrived = 0
		g.generation++
		g.cond.Broadcast()
	} else {
		for gen == g.generation {
			g.cond.Wait()
		}
	}
	return g.result
}

type member struct {
	group *Group
	rank  int
}

func (m *member) Rank() int { return m.rank }
func (m *member) Size() int { return m.group.n }

func (m *member) MeanTree(g Branch) Branch {
	return unflattenTree(g, m.group.allReduce(flattenTree(g)))
}

func (m *member) Mean(v complex128) complex128 {
	return m.group.allReduce([]complex128{v})[0]
}

func (m *member) MeanFloat(v float64) float64 {
	return real(m.Mean(complex(v, 0)))
}
