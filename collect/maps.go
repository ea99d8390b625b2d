package collect

import "github.com/kbukum/streamkit/errors"

type toMap[T any, K comparable, V any] struct {
	key   func(T) K
	value func(T) V
	// merge is nil for the strict variant.
	merge func(old, incoming V) V
}

// ToMap builds a map from key and value projections. Two elements with the
// same key fail the collection with a DUPLICATE_KEY error.
func ToMap[T any, K comparable, V any](key func(T) K, value func(T) V) Collector[T, *OrderedMap[K, V], *OrderedMap[K, V]] {
	return toMap[T, K, V]{key: key, value: value}
}

// ToMapMerge builds a map from key and value projections, resolving
// collisions with merge(old, incoming). Keep-first is
// func(old, _ V) V { return old }.
func ToMapMerge[T any, K comparable, V any](key func(T) K, value func(T) V, merge func(old, incoming V) V) Collector[T, *OrderedMap[K, V], *OrderedMap[K, V]] {
	return toMap[T, K, V]{key: key, value: value, merge: merge}
}

func (c toMap[T, K, V]) Init() *OrderedMap[K, V] { return NewOrderedMap[K, V]() }

func (c toMap[T, K, V]) Accumulate(m *OrderedMap[K, V], v T) (*OrderedMap[K, V], error) {
	return m, c.put(m, c.key(v), c.value(v))
}

func (c toMap[T, K, V]) Combine(l, r *OrderedMap[K, V]) (*OrderedMap[K, V], error) {
	for k, v := range r.All() {
		if err := c.put(l, k, v); err != nil {
			return l, err
		}
	}
	return l, nil
}

func (c toMap[T, K, V]) Finish(m *OrderedMap[K, V]) (*OrderedMap[K, V], error) { return m, nil }

func (c toMap[T, K, V]) put(m *OrderedMap[K, V], k K, v V) error {
	old, exists := m.Get(k)
	switch {
	case !exists:
		m.Set(k, v)
	case c.merge == nil:
		return errors.DuplicateKey(k, old, v)
	default:
		m.Set(k, c.merge(old, v))
	}
	return nil
}

type groupingBy[T any, K comparable, A, R any] struct {
	key  func(T) K
	down Collector[T, A, R]
}

// GroupingBy groups elements into slices by key. Keys appear in first-seen
// order.
func GroupingBy[T any, K comparable](key func(T) K) Collector[T, *OrderedMap[K, []T], *OrderedMap[K, []T]] {
	return GroupingByTo(key, ToSlice[T]())
}

// GroupingByTo groups elements by key and reduces each group with down.
func GroupingByTo[T any, K comparable, A, R any](key func(T) K, down Collector[T, A, R]) Collector[T, *OrderedMap[K, A], *OrderedMap[K, R]] {
	return groupingBy[T, K, A, R]{key: key, down: down}
}

func (g groupingBy[T, K, A, R]) Init() *OrderedMap[K, A] { return NewOrderedMap[K, A]() }

func (g groupingBy[T, K, A, R]) Accumulate(m *OrderedMap[K, A], v T) (*OrderedMap[K, A], error) {
	k := g.key(v)
	acc, ok := m.Get(k)
	if !ok {
		acc = g.down.Init()
	}
	acc, err := g.down.Accumulate(acc, v)
	if err != nil {
		return m, err
	}
	m.Set(k, acc)
	return m, nil
}

func (g groupingBy[T, K, A, R]) Combine(l, r *OrderedMap[K, A]) (*OrderedMap[K, A], error) {
	return combineGroups(l, r, g.down)
}

func (g groupingBy[T, K, A, R]) Finish(m *OrderedMap[K, A]) (*OrderedMap[K, R], error) {
	return finishGroups(m, g.down)
}

type partitioningBy[T, A, R any] struct {
	pred func(T) bool
	down Collector[T, A, R]
}

// PartitioningBy splits elements into the false and true groups of pred.
// Both keys are always present, false first.
func PartitioningBy[T any](pred func(T) bool) Collector[T, *OrderedMap[bool, []T], *OrderedMap[bool, []T]] {
	return PartitioningByTo(pred, ToSlice[T]())
}

// PartitioningByTo splits elements by pred and reduces each side with down.
func PartitioningByTo[T, A, R any](pred func(T) bool, down Collector[T, A, R]) Collector[T, *OrderedMap[bool, A], *OrderedMap[bool, R]] {
	return partitioningBy[T, A, R]{pred: pred, down: down}
}

func (p partitioningBy[T, A, R]) Init() *OrderedMap[bool, A] {
	m := NewOrderedMap[bool, A]()
	m.Set(false, p.down.Init())
	m.Set(true, p.down.Init())
	return m
}

func (p partitioningBy[T, A, R]) Accumulate(m *OrderedMap[bool, A], v T) (*OrderedMap[bool, A], error) {
	k := p.pred(v)
	acc, _ := m.Get(k)
	acc, err := p.down.Accumulate(acc, v)
	if err != nil {
		return m, err
	}
	m.Set(k, acc)
	return m, nil
}

func (p partitioningBy[T, A, R]) Combine(l, r *OrderedMap[bool, A]) (*OrderedMap[bool, A], error) {
	return combineGroups(l, r, p.down)
}

func (p partitioningBy[T, A, R]) Finish(m *OrderedMap[bool, A]) (*OrderedMap[bool, R], error) {
	return finishGroups(m, p.down)
}

// combineGroups merges r into l. Keys new to l are appended in r's order, so
// a left-to-right fold over partitions reproduces the sequential key order.
func combineGroups[T any, K comparable, A, R any](l, r *OrderedMap[K, A], down Collector[T, A, R]) (*OrderedMap[K, A], error) {
	for k, ra := range r.All() {
		la, ok := l.Get(k)
		if !ok {
			l.Set(k, ra)
			continue
		}
		merged, err := down.Combine(la, ra)
		if err != nil {
			return l, err
		}
		l.Set(k, merged)
	}
	return l, nil
}

func finishGroups[T any, K comparable, A, R any](m *OrderedMap[K, A], down Collector[T, A, R]) (*OrderedMap[K, R], error) {
	out := NewOrderedMap[K, R]()
	for k, acc := range m.All() {
		res, err := down.Finish(acc)
		if err != nil {
			return nil, err
		}
		out.Set(k, res)
	}
	return out, nil
}
