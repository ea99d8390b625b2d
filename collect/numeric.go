package collect

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is any built-in floating point type.
type Float interface {
	~float32 | ~float64
}

// Number is any type Summing and Averaging can fold.
type Number interface {
	Integer | Float
}

type counting[T any] struct{}

// Counting counts elements.
func Counting[T any]() Collector[T, int64, int64] { return counting[T]{} }

func (counting[T]) Init() int64 { return 0 }

func (counting[T]) Accumulate(n int64, _ T) (int64, error) { return n + 1, nil }

func (counting[T]) Combine(l, r int64) (int64, error) { return l + r, nil }

func (counting[T]) Finish(n int64) (int64, error) { return n, nil }

type summing[T any, N Number] struct {
	fn func(T) N
}

// Summing adds fn(v) over all elements using N's own overflow and precision
// rules.
func Summing[T any, N Number](fn func(T) N) Collector[T, N, N] { return summing[T, N]{fn: fn} }

// SummingInt sums an int-valued projection.
func SummingInt[T any](fn func(T) int) Collector[T, int, int] { return Summing(fn) }

// SummingFloat sums a float64-valued projection.
func SummingFloat[T any](fn func(T) float64) Collector[T, float64, float64] { return Summing(fn) }

func (s summing[T, N]) Init() N { return 0 }

func (s summing[T, N]) Accumulate(acc N, v T) (N, error) { return acc + s.fn(v), nil }

func (s summing[T, N]) Combine(l, r N) (N, error) { return l + r, nil }

func (s summing[T, N]) Finish(acc N) (N, error) { return acc, nil }

// Mean is the running (sum, count) pair behind the averaging collectors.
type Mean struct {
	Sum   float64
	Count int64
}

// Value returns Sum/Count, or 0 when nothing was accumulated.
func (m Mean) Value() float64 {
	if m.Count == 0 {
		return 0
	}
	return m.Sum / float64(m.Count)
}

type averaging[T any, N Number] struct {
	fn func(T) N
}

// Averaging returns the arithmetic mean of fn(v); an empty input averages to 0.
func Averaging[T any, N Number](fn func(T) N) Collector[T, Mean, float64] {
	return averaging[T, N]{fn: fn}
}

// AveragingFloat averages a float64-valued projection.
func AveragingFloat[T any](fn func(T) float64) Collector[T, Mean, float64] { return Averaging(fn) }

// AveragingInt averages an int-valued projection.
func AveragingInt[T any](fn func(T) int) Collector[T, Mean, float64] { return Averaging(fn) }

func (a averaging[T, N]) Init() Mean { return Mean{} }

func (a averaging[T, N]) Accumulate(m Mean, v T) (Mean, error) {
	m.Sum += float64(a.fn(v))
	m.Count++
	return m, nil
}

func (a averaging[T, N]) Combine(l, r Mean) (Mean, error) {
	return Mean{Sum: l.Sum + r.Sum, Count: l.Count + r.Count}, nil
}

func (a averaging[T, N]) Finish(m Mean) (float64, error) { return m.Value(), nil }
