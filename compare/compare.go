// Package compare provides composable total orders.
//
// A Comparator reports a negative number, zero or a positive number when its
// first argument sorts before, equal to or after the second. Comparators
// chain: Reversed flips an order, ThenComparing breaks ties.
//
//	byCount := compare.ByValue[string, int64]().Reversed().
//	    ThenComparing(compare.ByKey[string, int64]())
package compare

import (
	"cmp"
	"slices"

	"github.com/kbukum/streamkit/collect"
)

// Comparator is a total order over T.
type Comparator[T any] func(a, b T) int

// Compare applies the comparator. It exists so a Comparator satisfies
// interfaces expecting a method.
func (c Comparator[T]) Compare(a, b T) int { return c(a, b) }

// Reversed returns the opposite order.
func (c Comparator[T]) Reversed() Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// ThenComparing returns an order that consults next only when c reports
// equality.
func (c Comparator[T]) ThenComparing(next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Natural orders values of an ordered type ascending.
func Natural[T cmp.Ordered]() Comparator[T] {
	return cmp.Compare[T]
}

// Comparing orders by an extracted ordered key.
func Comparing[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ComparingFunc orders by an extracted key using a comparator for the key.
func ComparingFunc[T, K any](key func(T) K, order Comparator[K]) Comparator[T] {
	return func(a, b T) int { return order(key(a), key(b)) }
}

// ByKey orders map entries by key.
func ByKey[K cmp.Ordered, V any]() Comparator[collect.Entry[K, V]] {
	return func(a, b collect.Entry[K, V]) int { return cmp.Compare(a.Key, b.Key) }
}

// ByValue orders map entries by value.
func ByValue[K comparable, V cmp.Ordered]() Comparator[collect.Entry[K, V]] {
	return func(a, b collect.Entry[K, V]) int { return cmp.Compare(a.Value, b.Value) }
}

// SortStable sorts items in place, keeping equal elements in their original
// order.
func SortStable[T any](items []T, c Comparator[T]) {
	slices.SortStableFunc(items, c)
}
