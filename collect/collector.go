package collect

// Collector is a mutable reduction from elements of T into a result R via an
// accumulator A.
//
// Combine must be associative: finishing Combine(a, b) is equivalent to
// accumulating the elements behind a and then those behind b into one
// accumulator. Accumulate and Combine may reuse and return their first
// argument.
type Collector[T, A, R any] interface {
	Init() A
	Accumulate(acc A, v T) (A, error)
	Combine(left, right A) (A, error)
	Finish(acc A) (R, error)
}

// funcCollector adapts plain functions to Collector.
type funcCollector[T, A, R any] struct {
	init       func() A
	accumulate func(A, T) A
	combine    func(A, A) A
	finish     func(A) R
}

// Of builds a collector from four infallible functions. A nil finish is
// not allowed; use Identity when A and R coincide.
func Of[T, A, R any](init func() A, accumulate func(A, T) A, combine func(A, A) A, finish func(A) R) Collector[T, A, R] {
	return funcCollector[T, A, R]{init: init, accumulate: accumulate, combine: combine, finish: finish}
}

// Identity is a finisher returning the accumulator unchanged.
func Identity[A any](acc A) A { return acc }

func (c funcCollector[T, A, R]) Init() A { return c.init() }

func (c funcCollector[T, A, R]) Accumulate(acc A, v T) (A, error) { return c.accumulate(acc, v), nil }

func (c funcCollector[T, A, R]) Combine(left, right A) (A, error) { return c.combine(left, right), nil }

func (c funcCollector[T, A, R]) Finish(acc A) (R, error) { return c.finish(acc), nil }

// Apply runs c sequentially over items. It is the reference semantics every
// parallel evaluation must match.
func Apply[T, A, R any](c Collector[T, A, R], items []T) (R, error) {
	acc := c.Init()
	for _, v := range items {
		var err error
		if acc, err = c.Accumulate(acc, v); err != nil {
			var zero R
			return zero, err
		}
	}
	return c.Finish(acc)
}
