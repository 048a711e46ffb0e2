// hilbert.go
package qsr

/*
Hilbert describes the configuration space of a chain of spin-1/2 sites.
Configurations are vectors of local eigenvalues, one per site, drawn from
LocalStates.
*/
type Hilbert struct {
	Sites int
}

// LocalDim is the local Hilbert-space dimension of a single site.
const LocalDim = 2

// LocalStates are the local eigenvalues, ordered by matrix index.
var LocalStates = [LocalDim]float64{1, -1}

// localIndex maps a local eigenvalue to its matrix row/column index.
func localIndex(v float64) int {
	if v > 0 {
		return 0
	}
	return 1
}

// NumStates returns the size of the full configuration space.
func (h Hilbert) NumStates() int {
	return 1 << h.Sites
}

/*
AllConfigs enumerates every configuration of the space, in lexicographic
order of matrix indices (all-up first).

Exponentially expensive in the number of sites; intended only for
diagnostics on small systems.
*/
func (h Hilbert) AllConfigs() Configs {
	total := h.NumStates()
	out := Configs{
		Data:  make([]float64, 0, total*h.Sites),
		Sites: h.Sites,
	}
	for k := 0; k < total; k++ {
		for s := h.Sites - 1; s >= 0; s-- {
			out.Data = append(out.Data, LocalStates[(k>>s)&1])
		}
	}
	return out
}

/*
Configs is a batch of configurations stored as one flat row-major array,
Sites values per row. The flat layout is what the downstream numeric
kernels consume directly.
*/
type Configs struct {
	Data  []float64
	Sites int
}

// Rows returns the number of configurations in the batch.
func (c Configs) Rows() int {
	if c.Sites == 0 {
		return 0
	}
	return len(c.Data) / c.Sites
}

// Row returns the i-th configuration as a view into the flat array.
func (c Configs) Row(i int) []float64 {
	return c.Data[i*c.Sites : (i+1)*c.Sites]
}
