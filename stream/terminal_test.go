package stream

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"
	"time"

	"github.com/kbukum/streamkit/collect"
	"github.com/kbukum/streamkit/compare"
	"github.com/kbukum/streamkit/errors"
)

var fruits = []string{"apple", "apple", "banana", "apple", "orange", "banana", "papaya"}

func identity[T any](v T) T { return v }

func TestGroupingByCounting(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice(fruits),
		collect.GroupingByTo(identity[string], collect.Counting[string]()))
	if err != nil {
		t.Fatal(err)
	}
	if s := got.String(); s != "{apple=3, banana=2, orange=1, papaya=1}" {
		t.Errorf("got %s", s)
	}
}

func TestSortedCountsDescThenName(t *testing.T) {
	ctx := context.Background()
	counts, err := Collect(ctx, FromSlice(fruits), collect.GroupingByTo(identity[string], collect.Counting[string]()))
	if err != nil {
		t.Fatal(err)
	}
	order := compare.ByValue[string, int64]().Reversed().ThenComparing(compare.ByKey[string, int64]())
	sorted, err := Sorted(FromSlice(counts.Entries()), order).ToSlice(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range sorted {
		got = append(got, e.String())
	}
	want := []string{"apple=3", "banana=2", "orange=1", "papaya=1"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPartitioningByAlwaysHasBothKeys(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{"empty", nil},
		{"only true", []int{2, 4}},
		{"only false", []int{1, 3}},
		{"mixed", []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(context.Background(), FromSlice(tt.input),
				collect.PartitioningBy(func(n int) bool { return n%2 == 0 }))
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got.Keys(), []bool{false, true}) {
				t.Errorf("keys = %v", got.Keys())
			}
		})
	}
}

func TestToMapDuplicateKeys(t *testing.T) {
	type person struct {
		name string
		city string
	}
	people := []person{{"ann", "oslo"}, {"bob", "rome"}, {"cy", "oslo"}}
	city := func(p person) string { return p.city }
	name := func(p person) string { return p.name }

	_, err := Collect(context.Background(), FromSlice(people), collect.ToMap(city, name))
	if !errors.IsCode(err, errors.ErrCodeDuplicateKey) {
		t.Fatalf("got %v, want DUPLICATE_KEY", err)
	}

	first, err := Collect(context.Background(), FromSlice(people),
		collect.ToMapMerge(city, name, func(old, _ string) string { return old }))
	if err != nil {
		t.Fatal(err)
	}
	if first.String() != "{oslo=ann, rome=bob}" {
		t.Errorf("got %s", first)
	}
}

func TestReduce(t *testing.T) {
	ctx := context.Background()
	sum, err := Range(1, 100, 1).Reduce(ctx, 0, func(a, b int) int { return a + b })
	if err != nil {
		t.Fatal(err)
	}
	if sum != 5050 {
		t.Errorf("sum = %d", sum)
	}

	empty, err := Of[int]().Reduce(ctx, 42, func(a, b int) int { return a + b })
	if err != nil || empty != 42 {
		t.Errorf("empty reduce = %d, %v; want identity 42", empty, err)
	}

	longest, err := Of("kiwi", "banana", "fig").ReduceNonEmpty(ctx, func(a, b string) string {
		if len(b) > len(a) {
			return b
		}
		return a
	})
	if err != nil || longest != "banana" {
		t.Errorf("got %q, %v", longest, err)
	}

	_, err = Of[string]().ReduceNonEmpty(ctx, func(a, b string) string { return a + b })
	if !errors.IsCode(err, errors.ErrCodeEmptyReduction) {
		t.Errorf("got %v, want EMPTY_REDUCTION", err)
	}
}

func TestMaxMin(t *testing.T) {
	ctx := context.Background()
	natural := compare.Natural[int]()

	v, ok, err := Of(3, 9, 2, 9).Max(ctx, natural)
	if err != nil || !ok || v != 9 {
		t.Errorf("max = %d, %v, %v", v, ok, err)
	}
	v, ok, err = Of(3, 9, 2).Min(ctx, natural)
	if err != nil || !ok || v != 2 {
		t.Errorf("min = %d, %v, %v", v, ok, err)
	}
	_, ok, err = Of[int]().Max(ctx, natural)
	if err != nil || ok {
		t.Errorf("max of empty = %v, %v; want absent", ok, err)
	}
}

func TestMatchTerminals(t *testing.T) {
	ctx := context.Background()
	even := func(n int) bool { return n%2 == 0 }
	tests := []struct {
		name     string
		input    []int
		wantAny  bool
		wantAll  bool
		wantNone bool
	}{
		{"empty", nil, false, true, true},
		{"all even", []int{2, 4}, true, true, false},
		{"mixed", []int{1, 2}, true, false, false},
		{"all odd", []int{1, 3}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anyM, err := FromSlice(tt.input).AnyMatch(ctx, even)
			if err != nil || anyM != tt.wantAny {
				t.Errorf("AnyMatch = %v, %v; want %v", anyM, err, tt.wantAny)
			}
			allM, err := FromSlice(tt.input).AllMatch(ctx, even)
			if err != nil || allM != tt.wantAll {
				t.Errorf("AllMatch = %v, %v; want %v", allM, err, tt.wantAll)
			}
			noneM, err := FromSlice(tt.input).NoneMatch(ctx, even)
			if err != nil || noneM != tt.wantNone {
				t.Errorf("NoneMatch = %v, %v; want %v", noneM, err, tt.wantNone)
			}
		})
	}
}

func TestFindOnEmpty(t *testing.T) {
	_, ok, err := Of[int]().FindFirst(context.Background())
	if err != nil || ok {
		t.Errorf("FindFirst on empty = %v, %v", ok, err)
	}
	_, ok, err = Of[int]().FindAny(context.Background())
	if err != nil || ok {
		t.Errorf("FindAny on empty = %v, %v", ok, err)
	}
}

func TestForEachOrdered(t *testing.T) {
	var got []int
	if err := Range(1, 5, 1).ForEachOrdered(context.Background(), func(n int) { got = append(got, n) }); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("got %v", got)
	}
}

func TestIter(t *testing.T) {
	ctx := context.Background()
	it, err := Map(Of(1, 2, 3), func(n int) int { return n * n }).Iter(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	var iterErr error
	for v := range Seq(ctx, it, &iterErr) {
		got = append(got, v)
	}
	if iterErr != nil {
		t.Fatal(iterErr)
	}
	if !slices.Equal(got, []int{1, 4, 9}) {
		t.Errorf("got %v", got)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Range(1, 10, 1).ToSlice(ctx)
	if !errors.IsCode(err, errors.ErrCodeCancelled) {
		t.Fatalf("got %v, want CANCELLED", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestDeadlineDuringEvaluation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	slow := Peek(Range(1, 1_000_000, 1), func(int) { time.Sleep(time.Millisecond) })
	_, err := slow.Count(ctx)
	if !errors.IsCode(err, errors.ErrCodeCancelled) || !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want CANCELLED wrapping deadline", err)
	}
}

func TestCollectNestedGrouping(t *testing.T) {
	type student struct {
		grade string
		name  string
		score float64
	}
	students := []student{
		{"A", "ann", 91}, {"B", "bob", 82}, {"A", "cy", 95}, {"C", "di", 71}, {"B", "ed", 86},
	}
	avg, err := Collect(context.Background(), FromSlice(students),
		collect.GroupingByTo(func(s student) string { return s.grade },
			collect.AveragingFloat(func(s student) float64 { return s.score })))
	if err != nil {
		t.Fatal(err)
	}
	if avg.String() != "{A=93, B=84, C=71}" {
		t.Errorf("got %s", avg)
	}

	names, err := Collect(context.Background(), FromSlice(students),
		collect.GroupingByTo(func(s student) string { return s.grade },
			collect.Mapping(func(s student) string { return s.name }, collect.Joining("/"))))
	if err != nil {
		t.Fatal(err)
	}
	if names.String() != "{A=ann/cy, B=bob/ed, C=di}" {
		t.Errorf("got %s", names)
	}
}
