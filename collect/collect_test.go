package collect

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/streamkit/errors"
)

var fruits = []string{"apple", "apple", "banana", "apple", "orange", "banana", "papaya"}

func identity[T any](v T) T { return v }

// splitApply accumulates items[:at] and items[at:] separately, combines the
// two partials and finishes the result.
func splitApply[T, A, R any](t *testing.T, c Collector[T, A, R], items []T, at int) R {
	t.Helper()
	left, right := c.Init(), c.Init()
	var err error
	for _, v := range items[:at] {
		if left, err = c.Accumulate(left, v); err != nil {
			t.Fatalf("accumulate left: %v", err)
		}
	}
	for _, v := range items[at:] {
		if right, err = c.Accumulate(right, v); err != nil {
			t.Fatalf("accumulate right: %v", err)
		}
	}
	combined, err := c.Combine(left, right)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	res, err := c.Finish(combined)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return res
}

// assertAssociative checks that every two-way split of items yields the
// sequential result.
func assertAssociative[T, A, R any](t *testing.T, c Collector[T, A, R], items []T, eq func(a, b R) bool) {
	t.Helper()
	want, err := Apply(c, items)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for at := 0; at <= len(items); at++ {
		if got := splitApply(t, c, items, at); !eq(got, want) {
			t.Errorf("split at %d: got %v, want %v", at, got, want)
		}
	}
}

func orderedEqual[K comparable, V any](a, b *OrderedMap[K, V]) bool {
	return reflect.DeepEqual(a.Entries(), b.Entries())
}

func TestGroupingByCounting(t *testing.T) {
	c := GroupingByTo(identity[string], Counting[string]())
	got, err := Apply(c, fruits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s := got.String(); s != "{apple=3, banana=2, orange=1, papaya=1}" {
		t.Errorf("got %s", s)
	}
	assertAssociative(t, c, fruits, orderedEqual[string, int64])
}

func TestGroupingByDefaultsToSlices(t *testing.T) {
	got, err := Apply(GroupingBy(func(s string) int { return len(s) }), []string{"a", "bb", "c", "dd", "eee"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if keys := got.Keys(); !slices.Equal(keys, []int{1, 2, 3}) {
		t.Errorf("keys = %v", keys)
	}
	if g, _ := got.Get(2); !slices.Equal(g, []string{"bb", "dd"}) {
		t.Errorf("group 2 = %v", g)
	}
}

func TestNestedGrouping(t *testing.T) {
	type rec struct {
		dept, city, name string
	}
	recs := []rec{
		{"eng", "berlin", "ann"}, {"eng", "paris", "bo"}, {"ops", "berlin", "cy"},
		{"eng", "berlin", "di"}, {"ops", "berlin", "ed"},
	}
	c := GroupingByTo(func(r rec) string { return r.dept },
		GroupingByTo(func(r rec) string { return r.city },
			Mapping(func(r rec) string { return r.name }, ToSet[string]())))
	got, err := Apply(c, recs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	eng, _ := got.Get("eng")
	berlin, _ := eng.Get("berlin")
	if !slices.Equal(berlin.Items(), []string{"ann", "di"}) {
		t.Errorf("eng/berlin = %v", berlin)
	}
	assertAssociative(t, c, recs, func(a, b *OrderedMap[string, *OrderedMap[string, *Set[string]]]) bool {
		return a.String() == b.String()
	})
}

func TestPartitioningBy(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	tests := []struct {
		name  string
		input []int
		no    []int
		yes   []int
	}{
		{"mixed", []int{1, 2, 3, 4, 5}, []int{1, 3, 5}, []int{2, 4}},
		{"all odd", []int{1, 3}, []int{1, 3}, []int{}},
		{"empty", nil, []int{}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(PartitioningBy(even), tt.input)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if keys := got.Keys(); !slices.Equal(keys, []bool{false, true}) {
				t.Fatalf("keys = %v, want [false true]", keys)
			}
			f, _ := got.Get(false)
			tr, _ := got.Get(true)
			if !slices.Equal(f, tt.no) || !slices.Equal(tr, tt.yes) {
				t.Errorf("got false=%v true=%v", f, tr)
			}
			assertAssociative(t, PartitioningBy(even), tt.input, orderedEqual[bool, []int])
		})
	}
}

func TestPartitioningByToCounting(t *testing.T) {
	got, err := Apply(PartitioningByTo(func(s string) bool { return len(s) > 5 }, Counting[string]()), fruits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.String() != "{false=3, true=4}" {
		t.Errorf("got %s", got)
	}
}

func TestToMap(t *testing.T) {
	type kv struct {
		k string
		v int
	}
	items := []kv{{"a", 1}, {"b", 2}, {"a", 3}}
	key := func(x kv) string { return x.k }
	val := func(x kv) int { return x.v }

	t.Run("duplicate key fails", func(t *testing.T) {
		_, err := Apply(ToMap(key, val), items)
		if !errors.IsCode(err, errors.ErrCodeDuplicateKey) {
			t.Fatalf("err = %v, want DUPLICATE_KEY", err)
		}
		if !strings.Contains(err.Error(), "duplicate key a") {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("duplicate across partitions fails", func(t *testing.T) {
		c := ToMap(key, val)
		l, _ := c.Accumulate(c.Init(), items[0])
		r, _ := c.Accumulate(c.Init(), items[2])
		if _, err := c.Combine(l, r); !errors.IsCode(err, errors.ErrCodeDuplicateKey) {
			t.Errorf("err = %v, want DUPLICATE_KEY", err)
		}
	})

	t.Run("merge keeps first", func(t *testing.T) {
		c := ToMapMerge(key, val, func(old, _ int) int { return old })
		got, err := Apply(c, items)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if got.String() != "{a=1, b=2}" {
			t.Errorf("got %s", got)
		}
		assertAssociative(t, c, items, orderedEqual[string, int])
	})

	t.Run("merge sums", func(t *testing.T) {
		got, err := Apply(ToMapMerge(key, val, func(a, b int) int { return a + b }), items)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if v, _ := got.Get("a"); v != 4 {
			t.Errorf("a = %d, want 4", v)
		}
	})
}

func TestNumericCollectors(t *testing.T) {
	nums := []int{3, 1, 4, 1, 5, 9, 2, 6}
	eqInt := func(a, b int) bool { return a == b }

	assertAssociative(t, SummingInt(identity[int]), nums, eqInt)
	assertAssociative(t, Counting[int](), nums, func(a, b int64) bool { return a == b })
	assertAssociative(t, AveragingInt(identity[int]), nums, func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })

	if got, _ := Apply(SummingInt(identity[int]), nums); got != 31 {
		t.Errorf("sum = %d", got)
	}
	if got, _ := Apply(Summing(func(n int) int8 { return int8(n) }), []int{100, 100}); got != -56 {
		t.Errorf("int8 sum = %d, want wraparound -56", got)
	}
	if got, _ := Apply(AveragingFloat(func(f float64) float64 { return f }), []float64{1, 2}); got != 1.5 {
		t.Errorf("avg = %v", got)
	}
	if got, _ := Apply(AveragingInt(identity[int]), nil); got != 0 {
		t.Errorf("empty avg = %v, want 0", got)
	}
	if got, _ := Apply(SummingFloat(func(f float64) float64 { return f }), nil); got != 0 {
		t.Errorf("empty sum = %v", got)
	}
}

func TestJoining(t *testing.T) {
	tests := []struct {
		name  string
		c     Collector[string, *JoinBuffer, string]
		input []string
		want  string
	}{
		{"plain", Joining(", "), []string{"a", "b", "c"}, "a, b, c"},
		{"single", Joining(", "), []string{"a"}, "a"},
		{"empty", Joining(", "), nil, ""},
		{"empty strings", Joining("-"), []string{"", "", ""}, "--"},
		{"wrapped", JoiningWith("|", "[", "]"), []string{"x", "y"}, "[x|y]"},
		{"wrapped empty", JoiningWith("|", "[", "]"), nil, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.c, tt.input)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			for at := 0; at <= len(tt.input); at++ {
				if got := splitApply(t, tt.c, tt.input, at); got != tt.want {
					t.Errorf("split at %d: got %q, want %q", at, got, tt.want)
				}
			}
		})
	}
}

func TestMaxMinBy(t *testing.T) {
	type p struct {
		name string
		age  int
	}
	people := []p{{"a", 30}, {"b", 40}, {"c", 40}, {"d", 20}, {"e", 20}}
	byAge := func(x, y p) int { return x.age - y.age }

	maxP, _ := Apply(MaxBy(byAge), people)
	if v, ok := maxP.Get(); !ok || v.name != "b" {
		t.Errorf("max = %v, %v; want b (first of ties)", v, ok)
	}
	minP, _ := Apply(MinBy(byAge), people)
	if v, ok := minP.Get(); !ok || v.name != "d" {
		t.Errorf("min = %v, %v; want d (first of ties)", v, ok)
	}
	none, _ := Apply(MaxBy(byAge), nil)
	if none.IsPresent() {
		t.Error("max of empty input should be absent")
	}
	if got := none.OrElse(p{name: "z"}); got.name != "z" {
		t.Errorf("OrElse = %v", got)
	}
	assertAssociative(t, MaxBy(byAge), people, func(a, b Optional[p]) bool { return a == b })
	assertAssociative(t, MinBy(byAge), people, func(a, b Optional[p]) bool { return a == b })
}

func TestReducingAndAdapters(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5, 6}
	product := Reducing(1, func(a, b int) int { return a * b })
	if got, _ := Apply(product, nums); got != 720 {
		t.Errorf("product = %d", got)
	}
	assertAssociative(t, product, nums, func(a, b int) bool { return a == b })

	evens := Filtering(func(n int) bool { return n%2 == 0 }, ToSlice[int]())
	if got, _ := Apply(evens, nums); !slices.Equal(got, []int{2, 4, 6}) {
		t.Errorf("filtering = %v", got)
	}

	size := CollectingAndThen(ToSet[int](), func(s *Set[int]) int { return s.Len() })
	if got, _ := Apply(size, []int{1, 1, 2, 3, 3}); got != 3 {
		t.Errorf("distinct count = %d", got)
	}

	squares := Mapping(func(n int) int { return n * n }, ToSlice[int]())
	assertAssociative(t, squares, nums, func(a, b []int) bool { return slices.Equal(a, b) })
}

func TestOf(t *testing.T) {
	longest := Of(
		func() string { return "" },
		func(acc, s string) string {
			if len(s) > len(acc) {
				return s
			}
			return acc
		},
		func(l, r string) string {
			if len(r) > len(l) {
				return r
			}
			return l
		},
		strings.ToUpper,
	)
	got, err := Apply(longest, fruits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "BANANA" {
		t.Errorf("got %q", got)
	}
	assertAssociative(t, longest, fruits, func(a, b string) bool { return a == b })
}

func TestToSliceKeepsOrder(t *testing.T) {
	got, err := Apply(ToSlice[string](), fruits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(got, fruits) {
		t.Errorf("got %v", got)
	}
	empty, _ := Apply(ToSlice[int](), nil)
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty = %#v, want non-nil empty slice", empty)
	}
}

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	if !slices.Equal(m.Keys(), []string{"b", "a"}) {
		t.Errorf("keys = %v", m.Keys())
	}
	if !slices.Equal(m.Values(), []int{3, 2}) {
		t.Errorf("values = %v", m.Values())
	}
	if !reflect.DeepEqual(m.Map(), map[string]int{"a": 2, "b": 3}) {
		t.Errorf("map = %v", m.Map())
	}
	if m.Has("c") || m.Len() != 2 {
		t.Errorf("Has(c)=%v Len=%d", m.Has("c"), m.Len())
	}
	if s := NewSet(3, 1, 3, 2).String(); s != "[3, 1, 2]" {
		t.Errorf("set = %s", s)
	}
}
