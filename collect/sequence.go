package collect

import "strings"

type toSlice[T any] struct{}

// ToSlice gathers elements in encounter order.
func ToSlice[T any]() Collector[T, []T, []T] { return toSlice[T]{} }

func (toSlice[T]) Init() []T { return make([]T, 0) }

func (toSlice[T]) Accumulate(acc []T, v T) ([]T, error) { return append(acc, v), nil }

func (toSlice[T]) Combine(l, r []T) ([]T, error) { return append(l, r...), nil }

func (toSlice[T]) Finish(acc []T) ([]T, error) { return acc, nil }

type toSet[T comparable] struct{}

// ToSet gathers distinct elements, keeping the first occurrence's position.
func ToSet[T comparable]() Collector[T, *Set[T], *Set[T]] { return toSet[T]{} }

func (toSet[T]) Init() *Set[T] { return NewSet[T]() }

func (toSet[T]) Accumulate(s *Set[T], v T) (*Set[T], error) {
	s.Add(v)
	return s, nil
}

func (toSet[T]) Combine(l, r *Set[T]) (*Set[T], error) {
	for v := range r.All() {
		l.Add(v)
	}
	return l, nil
}

func (toSet[T]) Finish(s *Set[T]) (*Set[T], error) { return s, nil }

// JoinBuffer is the accumulator of the joining collectors.
type JoinBuffer struct {
	b strings.Builder
	n int
}

type joining struct {
	delim, prefix, suffix string
}

// Joining concatenates strings separated by delim.
func Joining(delim string) Collector[string, *JoinBuffer, string] {
	return joining{delim: delim}
}

// JoiningWith concatenates strings separated by delim and wrapped in
// prefix and suffix. An empty input yields prefix+suffix.
func JoiningWith(delim, prefix, suffix string) Collector[string, *JoinBuffer, string] {
	return joining{delim: delim, prefix: prefix, suffix: suffix}
}

func (j joining) Init() *JoinBuffer { return &JoinBuffer{} }

func (j joining) Accumulate(buf *JoinBuffer, s string) (*JoinBuffer, error) {
	if buf.n > 0 {
		buf.b.WriteString(j.delim)
	}
	buf.b.WriteString(s)
	buf.n++
	return buf, nil
}

// Combine inserts the delimiter at the seam only when both sides hold
// elements.
func (j joining) Combine(l, r *JoinBuffer) (*JoinBuffer, error) {
	switch {
	case r.n == 0:
		return l, nil
	case l.n == 0:
		return r, nil
	}
	l.b.WriteString(j.delim)
	l.b.WriteString(r.b.String())
	l.n += r.n
	return l, nil
}

func (j joining) Finish(buf *JoinBuffer) (string, error) {
	return j.prefix + buf.b.String() + j.suffix, nil
}

type reducing[T any] struct {
	identity T
	op       func(T, T) T
}

// Reducing folds elements with op starting from identity. op must be
// associative and identity must be its neutral element.
func Reducing[T any](identity T, op func(a, b T) T) Collector[T, T, T] {
	return reducing[T]{identity: identity, op: op}
}

func (r reducing[T]) Init() T { return r.identity }

func (r reducing[T]) Accumulate(acc T, v T) (T, error) { return r.op(acc, v), nil }

func (r reducing[T]) Combine(a, b T) (T, error) { return r.op(a, b), nil }

func (r reducing[T]) Finish(acc T) (T, error) { return acc, nil }

type extremum[T any] struct {
	// keep reports whether the current best a survives against b.
	keep func(a, b T) bool
}

// MaxBy selects the greatest element under order; on ties the earlier
// element wins. An empty input yields None.
func MaxBy[T any](order func(a, b T) int) Collector[T, Optional[T], Optional[T]] {
	return extremum[T]{keep: func(a, b T) bool { return order(a, b) >= 0 }}
}

// MinBy selects the least element under order; on ties the earlier element
// wins. An empty input yields None.
func MinBy[T any](order func(a, b T) int) Collector[T, Optional[T], Optional[T]] {
	return extremum[T]{keep: func(a, b T) bool { return order(a, b) <= 0 }}
}

func (e extremum[T]) Init() Optional[T] { return None[T]() }

func (e extremum[T]) Accumulate(best Optional[T], v T) (Optional[T], error) {
	return e.Combine(best, Some(v))
}

func (e extremum[T]) Combine(l, r Optional[T]) (Optional[T], error) {
	switch {
	case !r.present:
		return l, nil
	case !l.present:
		return r, nil
	case e.keep(l.value, r.value):
		return l, nil
	}
	return r, nil
}

func (e extremum[T]) Finish(best Optional[T]) (Optional[T], error) { return best, nil }
