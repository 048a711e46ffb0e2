// ansatz.go
package qsr

/*
VariationalState is the external variational ansatz plus its
Monte-Carlo sampler, seen through the narrow surface this core needs.

The gradient engine performs reverse-mode differentiation through the
log-amplitude function, so alongside forward evaluation the state must
provide the vector-Jacobian product of a batch evaluation: given
cotangents c, VJP returns the tree

	g = sum_i c_i * d logAmp(params, sigma_i) / d params

shaped like the parameter tree. Parameters are mutated in place by the
external optimizer between steps; steps are never concurrent.
*/
type VariationalState interface {
	// Parameters returns the current trainable parameter tree.
	Parameters() Branch

	// Reset refreshes the Monte-Carlo sampler.
	Reset()

	// Samples returns the sampler's current configuration batch.
	Samples() Configs

	// LogAmp evaluates log-amplitudes for a batch of configurations.
	LogAmp(params Branch, configs Configs) []complex128

	// VJP pulls cotangents back through a batch evaluation.
	VJP(params Branch, configs Configs, cotangents []complex128) Branch
}

/*
Preconditioner maps a raw loss gradient to a curvature-corrected
parameter update (stochastic-reconfiguration style solvers live behind
this). IdentityPreconditioner is the default.
*/
type Preconditioner func(state VariationalState, grad Branch) Branch

// IdentityPreconditioner returns the loss gradient unchanged.
func IdentityPreconditioner(_ VariationalState, grad Branch) Branch {
	return grad
}
