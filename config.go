package qsr

// Config carries the tunables of a QSR driver.
type Config struct {
	// PaddingGranularity quantizes composed batch buffer sizes.
	PaddingGranularity int

	// Seed is the root RNG seed; nil picks a process-default source.
	Seed *uint64

	// Preconditioner maps loss gradients to parameter updates.
	Preconditioner Preconditioner

	// Reducer is the worker-group collective.
	Reducer Reducer
}

func NewConfig() *Config {
	return &Config{
		PaddingGranularity: 128,
		Preconditioner:     IdentityPreconditioner,
		Reducer:            Solo{},
	}
}
