package collect

type mapping[T, U, A, R any] struct {
	fn   func(T) U
	down Collector[U, A, R]
}

// Mapping applies fn to each element before handing it to down.
func Mapping[T, U, A, R any](fn func(T) U, down Collector[U, A, R]) Collector[T, A, R] {
	return mapping[T, U, A, R]{fn: fn, down: down}
}

func (m mapping[T, U, A, R]) Init() A { return m.down.Init() }

func (m mapping[T, U, A, R]) Accumulate(acc A, v T) (A, error) {
	return m.down.Accumulate(acc, m.fn(v))
}

func (m mapping[T, U, A, R]) Combine(l, r A) (A, error) { return m.down.Combine(l, r) }

func (m mapping[T, U, A, R]) Finish(acc A) (R, error) { return m.down.Finish(acc) }

type filtering[T, A, R any] struct {
	pred func(T) bool
	down Collector[T, A, R]
}

// Filtering hands down only the elements satisfying pred. Unlike a Filter
// stage ahead of GroupingBy, groups whose elements are all rejected still
// appear with down's empty result.
func Filtering[T, A, R any](pred func(T) bool, down Collector[T, A, R]) Collector[T, A, R] {
	return filtering[T, A, R]{pred: pred, down: down}
}

func (f filtering[T, A, R]) Init() A { return f.down.Init() }

func (f filtering[T, A, R]) Accumulate(acc A, v T) (A, error) {
	if !f.pred(v) {
		return acc, nil
	}
	return f.down.Accumulate(acc, v)
}

func (f filtering[T, A, R]) Combine(l, r A) (A, error) { return f.down.Combine(l, r) }

func (f filtering[T, A, R]) Finish(acc A) (R, error) { return f.down.Finish(acc) }

type andThen[T, A, R, RR any] struct {
	down Collector[T, A, R]
	fn   func(R) RR
}

// CollectingAndThen post-processes down's result with fn.
func CollectingAndThen[T, A, R, RR any](down Collector[T, A, R], fn func(R) RR) Collector[T, A, RR] {
	return andThen[T, A, R, RR]{down: down, fn: fn}
}

func (c andThen[T, A, R, RR]) Init() A { return c.down.Init() }

func (c andThen[T, A, R, RR]) Accumulate(acc A, v T) (A, error) { return c.down.Accumulate(acc, v) }

func (c andThen[T, A, R, RR]) Combine(l, r A) (A, error) { return c.down.Combine(l, r) }

func (c andThen[T, A, R, RR]) Finish(acc A) (RR, error) {
	r, err := c.down.Finish(acc)
	if err != nil {
		var zero RR
		return zero, err
	}
	return c.fn(r), nil
}
