// driver.go
package qsr

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/theapemachine/errnie"
)

/*
TrainingData pairs measurement samples with the bases they were taken
in, one basis per sample. Bases are given either as label descriptors
or as prebuilt rotation operators; exactly one of the two must be set.
*/
type TrainingData struct {
	Samples   Configs
	Bases     []Basis
	Operators []*RotationOperator
}

/*
QSR is the quantum state reconstruction driver. It owns the converted
training dataset, the per-worker RNG stream and the batch size, and
exposes one training step at a time to the external training loop. The
external optimizer applies the returned updates; QSR never mutates the
parameters itself.
*/
type QSR struct {
	state   VariationalState
	precond Preconditioner
	reducer Reducer

	hilbert     Hilbert
	dataset     *Dataset
	batchSize   int
	granularity int
	rng         *rand.Rand

	metrics Metrics

	// Cached from the last step, for diagnostics.
	lastBatch  *Batch
	lastLogVal complex128
	lossGrad   Branch
	dp         Branch
}

/*
New converts the training data once and seeds the driver's RNG stream.
The stream is split deterministically from the root seed by worker
rank, so the same seed and worker count reproduce the same sequence of
batches.
*/
func New(data TrainingData, trainingBatchSize int, state VariationalState, cfg *Config) (*QSR, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if trainingBatchSize <= 0 {
		return nil, fmt.Errorf("training batch size must be positive, got %d", trainingBatchSize)
	}
	if state == nil {
		return nil, fmt.Errorf("nil variational state")
	}

	hilbert := Hilbert{Sites: data.Samples.Sites}
	ops, err := resolveOperators(hilbert, data)
	if err != nil {
		return nil, err
	}
	dataset, err := Convert(data.Samples, ops)
	if err != nil {
		return nil, err
	}
	if trainingBatchSize > dataset.Records() {
		log.Printf("training batch size %d exceeds dataset size %d", trainingBatchSize, dataset.Records())
	}

	q := &QSR{
		state:       state,
		precond:     cfg.Preconditioner,
		reducer:     cfg.Reducer,
		hilbert:     hilbert,
		dataset:     dataset,
		batchSize:   trainingBatchSize,
		granularity: cfg.PaddingGranularity,
	}
	if q.precond == nil {
		q.precond = IdentityPreconditioner
	}
	if q.reducer == nil {
		q.reducer = Solo{}
	}

	root := rand.Uint64()
	if cfg.Seed != nil {
		root = *cfg.Seed
	}
	s1, s2 := splitSeed(root, q.reducer.Rank())
	q.rng = rand.New(rand.NewPCG(s1, s2))

	errnie.Info(
		"QSR - records %v, max segment %v, batch size %v, workers %v",
		dataset.Records(),
		dataset.MaxLen,
		trainingBatchSize,
		q.reducer.Size(),
	)
	return q, nil
}

/*
Step runs one training step: refresh the sampler, take the negative
phase over the model's own samples, draw and compose a training batch,
take the positive phase over it, combine, precondition, and project
real-valued parameter leaves. Returns the parameter update for the
external optimizer.
*/
func (q *QSR) Step() Branch {
	start := time.Now()

	q.state.Reset()
	params := q.state.Parameters()

	gradNeg := avgGradient(q.state, params, q.state.Samples(), q.reducer)

	indices := make([]int, q.batchSize)
	for i := range indices {
		indices[i] = q.rng.IntN(q.dataset.Records())
	}
	q.lastBatch = Compose(q.dataset, indices, q.granularity)

	logValRot, gradPos := gradLocalValueRotated(q.state, params, q.lastBatch, q.reducer)
	q.lastLogVal = logValRot

	q.lossGrad = composeGrads(gradNeg, gradPos)
	q.dp = projectReal(q.precond(q.state, q.lossGrad), params)

	lossNorm, _ := TreeNorm(q.lossGrad, 2)
	dpNorm, _ := TreeNorm(q.dp, 2)
	q.metrics.recordStep(lossNorm, dpNorm, start)

	return q.dp
}

/*
NLL computes the negative log-likelihood of the training data under the
current model, as a training-quality diagnostic. The cross-entropy term
is evaluated on the batch cached by the last Step, not a fresh one; the
log-normalization is computed exactly by brute-force enumeration of the
entire configuration space, which is exponentially expensive in the
number of sites and usable only on small systems.
*/
func (q *QSR) NLL() (float64, error) {
	if q.lastBatch == nil {
		return 0, fmt.Errorf("no batch available: call Step first")
	}

	params := q.state.Parameters()

	logValRot := localValueRotatedAmplitude(q.state, params, q.lastBatch)
	var ce float64
	for _, v := range logValRot {
		ce += v
	}
	ce = q.reducer.MeanFloat(ce / float64(len(logValRot)))

	// Exact log-normalization, shifted by the max for stability.
	logPsi := q.state.LogAmp(params, q.hilbert.AllConfigs())
	maxl := math.Inf(-1)
	for _, v := range logPsi {
		if real(v) > maxl {
			maxl = real(v)
		}
	}
	var norm float64
	for _, v := range logPsi {
		norm += math.Exp(2 * (real(v) - maxl))
	}
	logN := math.Log(norm) + 2*maxl

	return logN - ce, nil
}

// LossGrad returns the loss gradient of the last step.
func (q *QSR) LossGrad() Branch { return q.lossGrad }

// LastBatch returns the batch composed by the last step.
func (q *QSR) LastBatch() *Batch { return q.lastBatch }

// LogValRotated returns the last step's mean rotated log-amplitude.
func (q *QSR) LogValRotated() complex128 { return q.lastLogVal }

// Metrics returns a snapshot of the step diagnostics, including the
// L2 tree norms of the last loss gradient and update.
func (q *QSR) Metrics() MetricsSnapshot { return q.metrics.Snapshot() }

func (q *QSR) String() string {
	return fmt.Sprintf("QSR(records=%d, batch=%d)", q.dataset.Records(), q.batchSize)
}

// splitmix64 is the standard 64-bit mix used to derive stream seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// splitSeed derives a disjoint PCG seed pair for one worker rank from
// the root seed.
func splitSeed(root uint64, rank int) (uint64, uint64) {
	base := splitmix64(root ^ splitmix64(uint64(rank)+1))
	return base, splitmix64(base)
}
