package stream

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

// source opens one partition.
type source[T any] func(ctx context.Context) Iterator[T]

// splitFunc partitions a pipeline into at most n sources of roughly minSize
// elements or more. It always returns at least one source.
type splitFunc[T any] func(n, minSize int) []source[T]

// chain is the state shared by every handle derived from one source: its
// identity, the single consumption flag and the stage descriptors.
type chain struct {
	id       string
	consumed atomic.Bool

	mu       sync.Mutex
	stages   []string
	parallel bool
	workers  int
}

func newChain(sourceName string) *chain {
	return &chain{id: uuid.NewString(), stages: []string{sourceName}}
}

func (c *chain) addStage(name string) {
	c.mu.Lock()
	c.stages = append(c.stages, name)
	c.mu.Unlock()
}

func (c *chain) setMode(parallel bool, workers int) {
	c.mu.Lock()
	c.parallel = parallel
	c.workers = workers
	c.mu.Unlock()
}

func (c *chain) plan() plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	exec := Defaults()
	pl := plan{parallel: c.parallel, workers: 1, minPartitionSize: exec.MinPartitionSize}
	if c.parallel {
		pl.workers = c.workers
		if pl.workers <= 0 {
			pl.workers = exec.resolvedWorkers()
		}
	}
	return pl
}

// plan is the execution strategy fixed when a terminal operation starts.
type plan struct {
	parallel         bool
	workers          int
	minPartitionSize int
}

func (p plan) mode() string {
	if p.parallel {
		return "parallel"
	}
	return "sequential"
}

// Pipeline is a lazy, single-use handle over a chain of stages. Nothing is
// evaluated until a terminal operation runs, and at most one terminal
// operation ever runs per chain.
//
// Every stage call returns a new handle and retires the one it was called
// on; using a retired handle fails with an EXHAUSTED_PIPELINE error.
type Pipeline[T any] struct {
	chain  *chain
	split  splitFunc[T]
	err    error
	linked atomic.Bool
}

func newPipeline[T any](sourceName string, split splitFunc[T]) *Pipeline[T] {
	return &Pipeline[T]{chain: newChain(sourceName), split: split}
}

// failed returns a pipeline whose first terminal operation reports err.
func failed[T any](sourceName string, err error) *Pipeline[T] {
	return &Pipeline[T]{chain: newChain(sourceName), err: err}
}

// derive appends a stage to p's chain and returns the handle for it.
func derive[I, O any](p *Pipeline[I], stage string, wrap func(splitFunc[I]) splitFunc[O]) *Pipeline[O] {
	next := &Pipeline[O]{chain: p.chain, err: p.err}
	if !p.linked.CompareAndSwap(false, true) || p.chain.consumed.Load() {
		next.err = exhausted(p.chain, stage)
		return next
	}
	p.chain.addStage(stage)
	if next.err == nil {
		next.split = wrap(p.split)
	}
	return next
}

// begin moves the chain from open to consumed on behalf of a terminal
// operation.
func (p *Pipeline[T]) begin(op string) (plan, error) {
	if errors.IsCode(p.err, errors.ErrCodeExhaustedPipeline) {
		return plan{}, p.err
	}
	if p.linked.Load() || !p.chain.consumed.CompareAndSwap(false, true) {
		return plan{}, exhausted(p.chain, op)
	}
	if p.err != nil {
		return plan{}, p.err
	}
	return p.chain.plan(), nil
}

func exhausted(c *chain, attempt string) error {
	logger.Get(component).Warn("pipeline already consumed", logger.Fields(
		logger.FieldChain, c.id,
		logger.FieldOperation, attempt,
	))
	return errors.ExhaustedPipeline(c.id)
}

// Parallel switches the whole chain to partitioned execution with the given
// number of workers; workers <= 0 uses the configured default. The receiver
// is returned and stays usable.
//
// On a retired handle or a consumed chain the mode is left unchanged; the
// terminal operation on the returned handle fails with EXHAUSTED_PIPELINE.
func (p *Pipeline[T]) Parallel(workers int) *Pipeline[T] {
	p.switchMode("parallel", true, workers)
	return p
}

// Sequential switches the whole chain back to single-goroutine execution.
// Retired handles and consumed chains are left unchanged, as for Parallel.
func (p *Pipeline[T]) Sequential() *Pipeline[T] {
	p.switchMode("sequential", false, 0)
	return p
}

func (p *Pipeline[T]) switchMode(op string, parallel bool, workers int) {
	if p.linked.Load() || p.chain.consumed.Load() {
		_ = exhausted(p.chain, op)
		return
	}
	p.chain.setMode(parallel, workers)
}

// IsParallel reports the current execution strategy of the chain.
func (p *Pipeline[T]) IsParallel() bool {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	return p.chain.parallel
}

// Description is a snapshot of a chain for diagnostics.
type Description struct {
	Chain    string
	Stages   []string
	Parallel bool
	Workers  int
	Consumed bool
}

// Describe returns the chain identity and its stage names, source first.
func (p *Pipeline[T]) Describe() Description {
	c := p.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	return Description{
		Chain:    c.id,
		Stages:   slices.Clone(c.stages),
		Parallel: c.parallel,
		Workers:  c.workers,
		Consumed: c.consumed.Load(),
	}
}
