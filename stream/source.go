package stream

import (
	"cmp"
	"context"
	"iter"
	"slices"

	"github.com/kbukum/streamkit/collect"
	"github.com/kbukum/streamkit/errors"
)

// Integer is any built-in integer type Range can count over.
type Integer = collect.Integer

// FromSlice creates a pipeline over items. The slice is read, never copied
// or modified; parallel runs split it into contiguous index ranges.
func FromSlice[T any](items []T) *Pipeline[T] {
	return newPipeline("slice", func(n, minSize int) []source[T] {
		return splitSlice(items, n, minSize)
	})
}

func splitSlice[T any](items []T, n, minSize int) []source[T] {
	size := uint64(len(items))
	k := partitionCount(size, n, minSize)
	out := make([]source[T], k)
	for i := range k {
		lo, hi := span(size, k, i)
		chunk := items[lo:hi]
		out[i] = func(context.Context) Iterator[T] { return &sliceIter[T]{items: chunk} }
	}
	return out
}

// Of creates a pipeline over its arguments.
func Of[T any](items ...T) *Pipeline[T] {
	return FromSlice(items)
}

// Range creates a pipeline over the closed interval [lo, hi] stepping by
// step. A zero step, a step pointing away from hi, or an element count that
// does not fit in a uint64 yields a pipeline whose first terminal operation
// fails with INVALID_RANGE.
//
// Values are computed from their index, so no element is stored and the
// last value never overflows T. Parallel runs split the index space.
func Range[T Integer](lo, hi, step T) *Pipeline[T] {
	count, err := rangeCount(lo, hi, step)
	if err != nil {
		return failed[T]("range", err)
	}
	base, delta := uint64(lo), uint64(step)
	return newPipeline("range", func(n, minSize int) []source[T] {
		k := partitionCount(count, n, minSize)
		out := make([]source[T], k)
		for i := range k {
			start, end := span(count, k, i)
			out[i] = func(context.Context) Iterator[T] {
				return &rangeIter[T]{base: base, step: delta, next: start, end: end}
			}
		}
		return out
	})
}

// rangeCount returns the number of elements of [lo, hi] by step. Differences
// are taken in wrapping uint64 arithmetic, which is exact for any pair of
// values of a type of 64 bits or fewer.
func rangeCount[T Integer](lo, hi, step T) (uint64, error) {
	var dist, stride uint64
	switch {
	case step == 0:
		return 0, errors.InvalidRange(lo, hi, step, "step must not be zero")
	case step > 0:
		if lo > hi {
			return 0, errors.InvalidRange(lo, hi, step, "positive step requires lo <= hi")
		}
		dist, stride = uint64(hi)-uint64(lo), uint64(step)
	default:
		if lo < hi {
			return 0, errors.InvalidRange(lo, hi, step, "negative step requires lo >= hi")
		}
		dist, stride = uint64(lo)-uint64(hi), -uint64(step)
	}
	steps := dist / stride
	if steps == ^uint64(0) {
		return 0, errors.InvalidRange(lo, hi, step, "element count overflows uint64")
	}
	return steps + 1, nil
}

// FromNested creates a pipeline that flattens seqs, draining each inner
// slice before the next. Empty inner slices are skipped. Parallel runs split
// the outer slice.
func FromNested[T any](seqs [][]T) *Pipeline[T] {
	return newPipeline("nested", func(n, minSize int) []source[T] {
		size := uint64(len(seqs))
		k := partitionCount(size, n, minSize)
		out := make([]source[T], k)
		for i := range k {
			lo, hi := span(size, k, i)
			chunk := seqs[lo:hi]
			out[i] = func(context.Context) Iterator[T] { return &nestedIter[T]{outer: chunk} }
		}
		return out
	})
}

// FromMap creates a pipeline over the entries of m in Go map iteration
// order. The map is read when a terminal operation starts.
func FromMap[K comparable, V any](m map[K]V) *Pipeline[collect.Entry[K, V]] {
	return newPipeline("map", func(n, minSize int) []source[collect.Entry[K, V]] {
		return splitSlice(entries(m), n, minSize)
	})
}

// FromMapSorted creates a pipeline over the entries of m in ascending key
// order.
func FromMapSorted[K cmp.Ordered, V any](m map[K]V) *Pipeline[collect.Entry[K, V]] {
	return newPipeline("sortedMap", func(n, minSize int) []source[collect.Entry[K, V]] {
		es := entries(m)
		slices.SortFunc(es, func(a, b collect.Entry[K, V]) int { return cmp.Compare(a.Key, b.Key) })
		return splitSlice(es, n, minSize)
	})
}

func entries[K comparable, V any](m map[K]V) []collect.Entry[K, V] {
	out := make([]collect.Entry[K, V], 0, len(m))
	for k, v := range m {
		out = append(out, collect.Entry[K, V]{Key: k, Value: v})
	}
	return out
}

// From creates a pipeline from an existing Iterator. The iterator cannot be
// split, so parallel runs read it as a single partition.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] { return it })
}

// FromFunc creates a pipeline from a factory that opens an Iterator when a
// terminal operation starts.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return newPipeline("iterator", func(int, int) []source[T] {
		return []source[T]{fn}
	})
}

// FromSeq creates a pipeline from a range-over-func sequence. It is not
// splittable.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] {
		next, stop := iter.Pull(seq)
		return &seqIter[T]{next: next, stop: stop}
	})
}

// Supplier builds a fresh pipeline on every Get, which is the way to run
// the same computation more than once.
type Supplier[T any] struct {
	build func() *Pipeline[T]
}

// Supply wraps a pipeline constructor.
func Supply[T any](build func() *Pipeline[T]) Supplier[T] {
	return Supplier[T]{build: build}
}

// Get returns a new, open pipeline.
func (s Supplier[T]) Get() *Pipeline[T] {
	return s.build()
}

// partitionCount returns how many partitions to cut size elements into: at
// most n, at least one, and no more than size/minSize.
func partitionCount(size uint64, n, minSize int) int {
	if n <= 1 {
		return 1
	}
	if minSize < 1 {
		minSize = 1
	}
	k := size / uint64(minSize)
	if k < 1 {
		return 1
	}
	if k > uint64(n) {
		return n
	}
	return int(k)
}

// span returns the bounds of partition i of k over size elements. The first
// size%k partitions get one extra element.
func span(size uint64, k, i int) (lo, hi uint64) {
	q, r := size/uint64(k), size%uint64(k)
	idx := uint64(i)
	lo = q*idx + min(idx, r)
	hi = lo + q
	if idx < r {
		hi++
	}
	return lo, hi
}
