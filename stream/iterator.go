package stream

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to the elements of one
// partition.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// rangeIter yields base + i*step for i in [next, end), in wrapping uint64
// arithmetic. Every produced value lies inside the range, so truncating back
// to T is exact.
type rangeIter[T Integer] struct {
	base, step uint64
	next, end  uint64
}

func (it *rangeIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.next >= it.end {
		return 0, false, nil
	}
	val := T(it.base + it.next*it.step)
	it.next++
	return val, true, nil
}

func (it *rangeIter[T]) Close() error { return nil }

// nestedIter drains each inner slice before moving to the next one.
type nestedIter[T any] struct {
	outer [][]T
	i, j  int
}

func (it *nestedIter[T]) Next(_ context.Context) (T, bool, error) {
	for it.i < len(it.outer) {
		inner := it.outer[it.i]
		if it.j < len(inner) {
			val := inner[it.j]
			it.j++
			return val, true, nil
		}
		it.i++
		it.j = 0
	}
	var zero T
	return zero, false, nil
}

func (it *nestedIter[T]) Close() error { return nil }

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next(_ context.Context) (T, bool, error) {
	v, ok := it.next()
	return v, ok, nil
}

func (it *seqIter[T]) Close() error {
	it.stop()
	return nil
}

// deferredIter builds its delegate on the first Next, so a barrier stage
// materialises only when a partition actually pulls.
type deferredIter[T any] struct {
	load func(ctx context.Context) (Iterator[T], error)
	it   Iterator[T]
}

func (it *deferredIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.it == nil {
		inner, err := it.load(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		it.it = inner
	}
	return it.it.Next(ctx)
}

func (it *deferredIter[T]) Close() error {
	if it.it != nil {
		return it.it.Close()
	}
	return nil
}

// concatIter reads its iterators one after another.
type concatIter[T any] struct {
	iters []Iterator[T]
	index int
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.iters {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Seq adapts an Iterator to a range-over-func sequence. Iteration stops at
// the first error, which is stored in *errp. The iterator is closed when the
// loop ends.
func Seq[T any](ctx context.Context, it Iterator[T], errp *error) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer func() {
			if err := it.Close(); err != nil && errp != nil && *errp == nil {
				*errp = err
			}
		}()
		for {
			v, ok, err := it.Next(ctx)
			if err != nil {
				if errp != nil {
					*errp = err
				}
				return
			}
			if !ok || !yield(v) {
				return
			}
		}
	}
}
