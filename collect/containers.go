package collect

import (
	"fmt"
	"iter"
	"strings"
)

// Entry is a key/value pair.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// String formats the entry as key=value.
func (e Entry[K, V]) String() string {
	return fmt.Sprintf("%v=%v", e.Key, e.Value)
}

// OrderedMap is a map that remembers key insertion order. Grouping and
// map-building collectors return it so results are reproducible.
type OrderedMap[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether k is present.
func (m *OrderedMap[K, V]) Has(k K) bool {
	_, ok := m.index[k]
	return ok
}

// Set stores v under k. A new key is appended; an existing key keeps its position.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if i, ok := m.index[k]; ok {
		m.values[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, len(m.values))
	copy(out, m.values)
	return out
}

// Entries returns the key/value pairs in insertion order.
func (m *OrderedMap[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry[K, V]{Key: k, Value: m.values[i]}
	}
	return out
}

// All iterates the pairs in insertion order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Map copies the contents into a plain Go map.
func (m *OrderedMap[K, V]) Map() map[K]V {
	out := make(map[K]V, len(m.keys))
	for i, k := range m.keys {
		out[k] = m.values[i]
	}
	return out
}

// String formats the map as {k1=v1, k2=v2}.
func (m *OrderedMap[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v=%v", k, m.values[i])
	}
	b.WriteByte('}')
	return b.String()
}

// Set is an insertion-ordered set.
type Set[T comparable] struct {
	m *OrderedMap[T, struct{}]
}

// NewSet returns a set holding items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{m: NewOrderedMap[T, struct{}]()}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *Set[T]) Add(v T) bool {
	if s.m.Has(v) {
		return false
	}
	s.m.Set(v, struct{}{})
	return true
}

// Has reports membership.
func (s *Set[T]) Has(v T) bool { return s.m.Has(v) }

// Len returns the number of members.
func (s *Set[T]) Len() int { return s.m.Len() }

// Items returns the members in insertion order.
func (s *Set[T]) Items() []T { return s.m.Keys() }

// All iterates the members in insertion order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// String formats the set as [a, b].
func (s *Set[T]) String() string {
	parts := make([]string, 0, s.Len())
	for v := range s.All() {
		parts = append(parts, fmt.Sprint(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Optional holds a value that may be absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// None returns an empty Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool { return o.present }

// OrElse returns the value or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}
