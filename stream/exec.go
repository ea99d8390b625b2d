package stream

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

// errShortCircuit is the cancellation cause used when a terminal operation
// has its answer and the remaining partitions may stop.
var errShortCircuit = stderrors.New("stream: short-circuited")

// run tracks one terminal invocation.
type run struct {
	op       string
	chain    string
	plan     plan
	parts    int
	elements atomic.Int64
}

// open splits p for the run's plan.
func open[T any](r *run, p *Pipeline[T]) []source[T] {
	parts := p.split(r.plan.workers, r.plan.minPartitionSize)
	r.parts = len(parts)
	if log := logger.Get(component); log.DebugEnabled() {
		log.Debug("pipeline partitioned", logger.Fields(
			logger.FieldChain, r.chain,
			logger.FieldOperation, r.op,
			logger.FieldMode, r.plan.mode(),
			logger.FieldPartitions, len(parts),
		))
	}
	return parts
}

// execute runs fn once per partition. A single partition runs on the
// calling goroutine; otherwise every partition gets its own goroutine and
// the first error cancels the rest.
func execute[T any](ctx context.Context, r *run, parts []source[T], fn func(ctx context.Context, i int, it Iterator[T]) error) error {
	if len(parts) == 1 {
		return fn(ctx, 0, parts[0](ctx))
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range parts {
		g.Go(func() error {
			err := fn(gctx, i, src(gctx))
			if err != nil && !stderrors.Is(err, context.Canceled) {
				logger.Get(component).Debug("partition failed", logger.MergeWithError(logger.Fields(
					logger.FieldChain, r.chain,
					logger.FieldOperation, r.op,
					logger.FieldPartition, i,
				), err))
			}
			return err
		})
	}
	return g.Wait()
}

// drain feeds every element of it to visit until the iterator ends, visit
// returns false, or ctx is done. The iterator is closed on return.
func drain[T any](ctx context.Context, r *run, it Iterator[T], visit func(T) (bool, error)) (err error) {
	var n int64
	defer func() {
		if r != nil {
			r.elements.Add(n)
		}
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	done := ctx.Done()
	for {
		select {
		case <-done:
			return ctx.Err()
		default:
		}
		v, ok, err := it.Next(ctx)
		if err != nil || !ok {
			return err
		}
		n++
		more, err := visit(v)
		if err != nil || !more {
			return err
		}
	}
}

// stopper cancels partitions once a short-circuiting terminal operation
// has decided. Partitions with an index above the cut are cancelled, and
// those that have not started yet are skipped.
type stopper struct {
	mu      sync.Mutex
	cut     int
	cancels map[int]context.CancelCauseFunc
}

func newStopper(n int) *stopper {
	return &stopper{cut: n, cancels: make(map[int]context.CancelCauseFunc)}
}

// enter derives the context for partition i. It reports false when the
// partition is already cut off.
func (s *stopper) enter(ctx context.Context, i int) (context.Context, func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i > s.cut {
		return nil, nil, false
	}
	pctx, cancel := context.WithCancelCause(ctx)
	s.cancels[i] = cancel
	return pctx, func() {
		s.mu.Lock()
		delete(s.cancels, i)
		s.mu.Unlock()
		cancel(context.Canceled)
	}, true
}

// stopAfter cancels every partition with an index above i. stopAfter(-1)
// cancels all of them.
func (s *stopper) stopAfter(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < s.cut {
		s.cut = i
	}
	for j, cancel := range s.cancels {
		if j > s.cut {
			cancel(errShortCircuit)
		}
	}
}

// shortCircuited reports whether err only reflects a stop requested by
// stopAfter.
func shortCircuited(ctx context.Context, err error) bool {
	return err != nil && stderrors.Is(context.Cause(ctx), errShortCircuit)
}

// materialize reads every partition into one slice in partition order.
func materialize[T any](ctx context.Context, parts []source[T]) ([]T, error) {
	chunks := make([][]T, len(parts))
	readPart := func(ctx context.Context, i int, it Iterator[T]) error {
		return drain(ctx, nil, it, func(v T) (bool, error) {
			chunks[i] = append(chunks[i], v)
			return true, nil
		})
	}
	var err error
	if len(parts) == 1 {
		err = readPart(ctx, 0, parts[0](ctx))
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range parts {
			g.Go(func() error { return readPart(gctx, i, src(gctx)) })
		}
		err = g.Wait()
	}
	if err != nil {
		return nil, err
	}
	return slices.Concat(chunks...), nil
}

// barrier turns an order-dependent stage into a split function. When the
// upstream is a single partition and lazy is set, the stage stays
// streaming. Otherwise the upstream is read in full, transformed by whole
// and re-split into n partitions.
func barrier[T any](up splitFunc[T], lazy func(Iterator[T]) Iterator[T], whole func([]T) []T) splitFunc[T] {
	return func(n, minSize int) []source[T] {
		ups := up(n, minSize)
		if len(ups) == 1 && lazy != nil {
			return []source[T]{func(ctx context.Context) Iterator[T] { return lazy(ups[0](ctx)) }}
		}
		var (
			once sync.Once
			buf  []T
			err  error
		)
		load := func(ctx context.Context) ([]T, error) {
			once.Do(func() {
				buf, err = materialize(ctx, ups)
				if err == nil {
					buf = whole(buf)
				}
			})
			return buf, err
		}
		k := max(n, 1)
		out := make([]source[T], k)
		for i := range k {
			out[i] = func(context.Context) Iterator[T] {
				return &deferredIter[T]{load: func(ctx context.Context) (Iterator[T], error) {
					all, err := load(ctx)
					if err != nil {
						return nil, err
					}
					lo, hi := span(uint64(len(all)), k, i)
					return &sliceIter[T]{items: all[lo:hi]}, nil
				}}
			}
		}
		return out
	}
}

// normalize maps an evaluation error onto the error taxonomy.
func normalize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Cancelled(err)
	}
	return errors.StageFailed("source", err)
}
