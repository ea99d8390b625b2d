package stream

import (
	"context"
	"fmt"
	"slices"

	"github.com/kbukum/streamkit/errors"
)

// each lifts a per-partition iterator transformation to a split function.
// wrap is called once per partition, so stateful wrappers never share
// state across partitions.
func each[I, O any](wrap func(Iterator[I]) Iterator[O]) func(splitFunc[I]) splitFunc[O] {
	return func(up splitFunc[I]) splitFunc[O] {
		return func(n, minSize int) []source[O] {
			ups := up(n, minSize)
			out := make([]source[O], len(ups))
			for i, src := range ups {
				out[i] = func(ctx context.Context) Iterator[O] { return wrap(src(ctx)) }
			}
			return out
		}
	}
}

// Filter keeps only values that satisfy pred.
func Filter[T any](p *Pipeline[T], pred func(T) bool) *Pipeline[T] {
	return filter(p, "filter", func(_ context.Context, v T) (bool, error) { return pred(v), nil })
}

// FilterErr keeps only values that satisfy pred. An error from pred aborts
// the terminal operation with STAGE_FAILED.
func FilterErr[T any](p *Pipeline[T], pred func(context.Context, T) (bool, error)) *Pipeline[T] {
	return filter(p, "filter", pred)
}

func filter[T any](p *Pipeline[T], name string, pred func(context.Context, T) (bool, error)) *Pipeline[T] {
	return derive(p, name, each(func(src Iterator[T]) Iterator[T] {
		return &filterIter[T]{source: src, fn: pred, stage: name}
	}))
}

// Map transforms each value with fn.
func Map[I, O any](p *Pipeline[I], fn func(I) O) *Pipeline[O] {
	return mapStage(p, "map", func(_ context.Context, v I) (O, error) { return fn(v), nil })
}

// MapErr transforms each value with fn. An error from fn aborts the
// terminal operation with STAGE_FAILED.
func MapErr[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return mapStage(p, "map", fn)
}

func mapStage[I, O any](p *Pipeline[I], name string, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return derive(p, name, each(func(src Iterator[I]) Iterator[O] {
		return &mapIter[I, O]{source: src, fn: fn, stage: name}
	}))
}

// Peek calls fn for each value as it passes, leaving the value unchanged.
func Peek[T any](p *Pipeline[T], fn func(T)) *Pipeline[T] {
	return mapStage(p, "peek", func(_ context.Context, v T) (T, error) {
		fn(v)
		return v, nil
	})
}

// FlatMap replaces each value with the elements of the slice fn returns.
// Each slice is drained before the next upstream value is pulled; empty
// slices are skipped.
func FlatMap[I, O any](p *Pipeline[I], fn func(I) []O) *Pipeline[O] {
	return flatMap(p, "flatMap", func(_ context.Context, v I) (Iterator[O], error) {
		return &sliceIter[O]{items: fn(v)}, nil
	})
}

// FlatMapIter replaces each value with the elements of the iterator fn
// returns. Inner iterators are closed once drained.
func FlatMapIter[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return flatMap(p, "flatMap", fn)
}

func flatMap[I, O any](p *Pipeline[I], name string, fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return derive(p, name, each(func(src Iterator[I]) Iterator[O] {
		return &flatMapIter[I, O]{source: src, fn: fn, stage: name}
	}))
}

// Distinct drops values equal to one already seen, keeping the first
// occurrence. In parallel mode it is a barrier: the upstream is read in full
// before any value moves on.
func Distinct[T comparable](p *Pipeline[T]) *Pipeline[T] {
	return derive(p, "distinct", func(up splitFunc[T]) splitFunc[T] {
		return barrier(up,
			func(src Iterator[T]) Iterator[T] {
				seen := make(map[T]struct{})
				return &filterIter[T]{source: src, stage: "distinct", fn: func(_ context.Context, v T) (bool, error) {
					if _, dup := seen[v]; dup {
						return false, nil
					}
					seen[v] = struct{}{}
					return true, nil
				}}
			},
			func(all []T) []T {
				seen := make(map[T]struct{}, len(all))
				out := all[:0]
				for _, v := range all {
					if _, dup := seen[v]; !dup {
						seen[v] = struct{}{}
						out = append(out, v)
					}
				}
				return out
			})
	})
}

// Limit truncates the pipeline to its first n values in encounter order.
// Sequentially it stops pulling upstream once n values have passed.
func Limit[T any](p *Pipeline[T], n int) *Pipeline[T] {
	n = max(n, 0)
	return derive(p, fmt.Sprintf("limit(%d)", n), func(up splitFunc[T]) splitFunc[T] {
		return barrier(up,
			func(src Iterator[T]) Iterator[T] { return &limitIter[T]{source: src, remaining: n} },
			func(all []T) []T { return all[:min(n, len(all))] })
	})
}

// Skip drops the first n values in encounter order.
func Skip[T any](p *Pipeline[T], n int) *Pipeline[T] {
	n = max(n, 0)
	return derive(p, fmt.Sprintf("skip(%d)", n), func(up splitFunc[T]) splitFunc[T] {
		return barrier(up,
			func(src Iterator[T]) Iterator[T] { return &skipIter[T]{source: src, remaining: n} },
			func(all []T) []T { return all[min(n, len(all)):] })
	})
}

// Sorted orders values by order, keeping equal values in encounter order.
// It is a barrier: the whole upstream is read before the first value moves
// on.
func Sorted[T any](p *Pipeline[T], order func(a, b T) int) *Pipeline[T] {
	return derive(p, "sorted", func(up splitFunc[T]) splitFunc[T] {
		return barrier(up, nil, func(all []T) []T {
			slices.SortStableFunc(all, order)
			return all
		})
	})
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
	stage  string
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, errors.StageFailed(it.stage, err)
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) (bool, error)
	stage  string
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		keep, err := it.fn(ctx, val)
		if err != nil {
			var zero T
			return zero, false, errors.StageFailed(it.stage, err)
		}
		if keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	stage   string
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			return zero, false, errors.StageFailed(it.stage, err)
		}
		if inner != nil {
			it.current = inner
		}
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type limitIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *limitIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.remaining <= 0 {
		var zero T
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, false, err
	}
	it.remaining--
	return val, true, nil
}

func (it *limitIter[T]) Close() error { return it.source.Close() }

type skipIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *skipIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.remaining > 0 {
		_, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		it.remaining--
	}
	return it.source.Next(ctx)
}

func (it *skipIter[T]) Close() error { return it.source.Close() }
