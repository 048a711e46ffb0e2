package qsr

/*
linearModel is a minimal variational state for tests: a linear
log-amplitude log_psi(w, x) = sum_s w_s * x_s with one leaf "w", and a
fixed sample batch standing in for the Monte-Carlo sampler.
*/
type linearModel struct {
	params  Branch
	samples Configs
	resets  int
}

func newLinearModel(weights *Leaf, samples Configs) *linearModel {
	return &linearModel{
		params:  Branch{"w": weights},
		samples: samples,
	}
}

func (m *linearModel) Parameters() Branch { return m.params }
func (m *linearModel) Samples() Configs   { return m.samples }
func (m *linearModel) Reset()             { m.resets++ }

func (m *linearModel) LogAmp(params Branch, configs Configs) []complex128 {
	w := params["w"].(*Leaf).Data
	out := make([]complex128, configs.Rows())
	for i := range out {
		row := configs.Row(i)
		var sum complex128
		for s, x := range row {
			sum += w[s] * complex(x, 0)
		}
		out[i] = sum
	}
	return out
}

func (m *linearModel) VJP(params Branch, configs Configs, cotangents []complex128) Branch {
	w := params["w"].(*Leaf)
	grad := make([]complex128, len(w.Data))
	for i, c := range cotangents {
		row := configs.Row(i)
		for s, x := range row {
			grad[s] += c * complex(x, 0)
		}
	}
	return Branch{"w": &Leaf{Data: grad, Real: w.Real}}
}
