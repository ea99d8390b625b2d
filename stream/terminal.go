package stream

import (
	"context"

	"github.com/kbukum/streamkit/collect"
	"github.com/kbukum/streamkit/errors"
)

// Collect evaluates p and reduces its elements with c. In parallel mode
// every partition fills its own accumulator and the partials are combined
// left to right in partition order.
func Collect[T, A, R any](ctx context.Context, p *Pipeline[T], c collect.Collector[T, A, R]) (R, error) {
	return collectAs(ctx, p, "collect", c)
}

func collectAs[T, A, R any](ctx context.Context, p *Pipeline[T], op string, c collect.Collector[T, A, R]) (R, error) {
	var res R
	err := observe(ctx, p, op, func(ctx context.Context, r *run) error {
		parts := open(r, p)
		accs := make([]A, len(parts))
		err := execute(ctx, r, parts, func(ctx context.Context, i int, it Iterator[T]) error {
			acc := c.Init()
			err := drain(ctx, r, it, func(v T) (bool, error) {
				var err error
				acc, err = c.Accumulate(acc, v)
				return err == nil, err
			})
			accs[i] = acc
			return err
		})
		if err != nil {
			return err
		}
		acc := accs[0]
		for _, next := range accs[1:] {
			if acc, err = c.Combine(acc, next); err != nil {
				return err
			}
		}
		res, err = c.Finish(acc)
		return err
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return res, nil
}

// ToSlice evaluates p into a slice in encounter order.
func (p *Pipeline[T]) ToSlice(ctx context.Context) ([]T, error) {
	return collectAs(ctx, p, "toSlice", collect.ToSlice[T]())
}

// Count evaluates p and returns the number of elements.
func (p *Pipeline[T]) Count(ctx context.Context) (int64, error) {
	return collectAs(ctx, p, "count", collect.Counting[T]())
}

// Reduce folds the elements with op starting from identity. op must be
// associative and identity its neutral element, or parallel results differ
// from sequential ones.
func (p *Pipeline[T]) Reduce(ctx context.Context, identity T, op func(a, b T) T) (T, error) {
	return collectAs(ctx, p, "reduce", collect.Reducing(identity, op))
}

// ReduceNonEmpty folds the elements with op starting from the first one. An
// empty pipeline fails with EMPTY_REDUCTION.
func (p *Pipeline[T]) ReduceNonEmpty(ctx context.Context, op func(a, b T) T) (T, error) {
	return collectAs[T, collect.Optional[T], T](ctx, p, "reduce", foldFirst[T]{op: op})
}

// Max returns the greatest element under order, the earliest on ties. ok
// is false for an empty pipeline.
func (p *Pipeline[T]) Max(ctx context.Context, order func(a, b T) int) (v T, ok bool, err error) {
	best, err := collectAs(ctx, p, "max", collect.MaxBy(order))
	v, ok = best.Get()
	return v, ok, err
}

// Min returns the least element under order, the earliest on ties. ok is
// false for an empty pipeline.
func (p *Pipeline[T]) Min(ctx context.Context, order func(a, b T) int) (v T, ok bool, err error) {
	best, err := collectAs(ctx, p, "min", collect.MinBy(order))
	v, ok = best.Get()
	return v, ok, err
}

// ForEach calls fn for every element. In parallel mode fn runs concurrently
// from several goroutines in no particular order.
func (p *Pipeline[T]) ForEach(ctx context.Context, fn func(T)) error {
	return observe(ctx, p, "forEach", func(ctx context.Context, r *run) error {
		return execute(ctx, r, open(r, p), func(ctx context.Context, _ int, it Iterator[T]) error {
			return drain(ctx, r, it, func(v T) (bool, error) {
				fn(v)
				return true, nil
			})
		})
	})
}

// ForEachOrdered calls fn for every element in encounter order from the
// calling goroutine. In parallel mode partitions are buffered and replayed
// once all of them have finished.
func (p *Pipeline[T]) ForEachOrdered(ctx context.Context, fn func(T)) error {
	return observe(ctx, p, "forEachOrdered", func(ctx context.Context, r *run) error {
		parts := open(r, p)
		if len(parts) == 1 {
			return drain(ctx, r, parts[0](ctx), func(v T) (bool, error) {
				fn(v)
				return true, nil
			})
		}
		bufs := make([][]T, len(parts))
		err := execute(ctx, r, parts, func(ctx context.Context, i int, it Iterator[T]) error {
			return drain(ctx, r, it, func(v T) (bool, error) {
				bufs[i] = append(bufs[i], v)
				return true, nil
			})
		})
		if err != nil {
			return err
		}
		for _, buf := range bufs {
			for _, v := range buf {
				fn(v)
			}
		}
		return nil
	})
}

// FindFirst returns the first element in encounter order. No element past
// it is pulled sequentially; in parallel mode partitions after the one
// holding the answer are cancelled.
func (p *Pipeline[T]) FindFirst(ctx context.Context) (T, bool, error) {
	return p.search(ctx, "findFirst", nil, true)
}

// FindAny returns some element, cancelling every partition once one is
// found. Sequentially it behaves like FindFirst.
func (p *Pipeline[T]) FindAny(ctx context.Context) (T, bool, error) {
	return p.search(ctx, "findAny", nil, false)
}

// AnyMatch reports whether some element satisfies pred. It stops at the
// first match.
func (p *Pipeline[T]) AnyMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	_, found, err := p.search(ctx, "anyMatch", pred, false)
	return found, err
}

// AllMatch reports whether every element satisfies pred. It stops at the
// first mismatch; an empty pipeline matches.
func (p *Pipeline[T]) AllMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	_, found, err := p.search(ctx, "allMatch", func(v T) bool { return !pred(v) }, false)
	return !found && err == nil, err
}

// NoneMatch reports whether no element satisfies pred. It stops at the
// first match; an empty pipeline matches.
func (p *Pipeline[T]) NoneMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	_, found, err := p.search(ctx, "noneMatch", pred, false)
	return !found && err == nil, err
}

// search returns an element satisfying test (any element when test is
// nil). ordered keeps partitions left of a hit running so the lowest-index
// hit wins.
func (p *Pipeline[T]) search(ctx context.Context, op string, test func(T) bool, ordered bool) (T, bool, error) {
	var (
		res   T
		found bool
	)
	err := observe(ctx, p, op, func(ctx context.Context, r *run) error {
		parts := open(r, p)
		hits := make([]collect.Optional[T], len(parts))
		stop := newStopper(len(parts))
		err := execute(ctx, r, parts, func(ctx context.Context, i int, it Iterator[T]) error {
			pctx, leave, ok := stop.enter(ctx, i)
			if !ok {
				return it.Close()
			}
			defer leave()
			err := drain(pctx, r, it, func(v T) (bool, error) {
				if test != nil && !test(v) {
					return true, nil
				}
				hits[i] = collect.Some(v)
				if ordered {
					stop.stopAfter(i)
				} else {
					stop.stopAfter(-1)
				}
				return false, nil
			})
			if shortCircuited(pctx, err) {
				return nil
			}
			return err
		})
		if err != nil {
			return err
		}
		for _, hit := range hits {
			if v, ok := hit.Get(); ok {
				res, found = v, true
				break
			}
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return res, found, nil
}

// Iter consumes p and hands its elements to the caller as one Iterator,
// partitions concatenated in order. The caller must Close it.
func (p *Pipeline[T]) Iter(ctx context.Context) (Iterator[T], error) {
	var it Iterator[T]
	err := observe(ctx, p, "iter", func(ctx context.Context, r *run) error {
		parts := open(r, p)
		iters := make([]Iterator[T], len(parts))
		for i, src := range parts {
			iters[i] = src(ctx)
		}
		if len(iters) == 1 {
			it = iters[0]
		} else {
			it = &concatIter[T]{iters: iters}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// foldFirst reduces without an identity, seeding with the first element.
type foldFirst[T any] struct {
	op func(a, b T) T
}

func (f foldFirst[T]) Init() collect.Optional[T] { return collect.None[T]() }

func (f foldFirst[T]) Accumulate(acc collect.Optional[T], v T) (collect.Optional[T], error) {
	return f.Combine(acc, collect.Some(v))
}

func (f foldFirst[T]) Combine(l, r collect.Optional[T]) (collect.Optional[T], error) {
	lv, lok := l.Get()
	rv, rok := r.Get()
	switch {
	case !lok:
		return r, nil
	case !rok:
		return l, nil
	}
	return collect.Some(f.op(lv, rv)), nil
}

func (f foldFirst[T]) Finish(acc collect.Optional[T]) (T, error) {
	if v, ok := acc.Get(); ok {
		return v, nil
	}
	var zero T
	return zero, errors.EmptyReduction("reduce")
}
