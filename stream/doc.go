// Package stream provides lazy, single-use data pipelines with sequential
// and partitioned parallel execution.
//
// A pipeline starts at a source, is extended with stages and is evaluated
// by exactly one terminal operation:
//
//	words := stream.FromNested([][]string{{"a", "b"}, {"c", "d"}})
//	upper := stream.Map(words, strings.ToUpper)
//	got, err := upper.ToSlice(ctx)
//
// Stages are pulled on demand: nothing runs until the terminal operation,
// and short-circuiting terminals such as FindFirst stop pulling once they
// have their answer.
//
// # Single use
//
// Every stage call retires the handle it was called on, and the first
// terminal operation consumes the whole chain. Any later terminal or stage
// call fails with an EXHAUSTED_PIPELINE error. Use Supply to build the same
// pipeline repeatedly.
//
// # Parallel execution
//
// Parallel(n) splits the source into up to n partitions (slices and ranges
// by index, nested slices by outer index) and runs the full stage chain for
// each on its own goroutine. Collectors fold each partition separately and
// combine the partials in partition order, so results match sequential
// execution for every associative collector. Sorted, and Distinct, Limit
// and Skip over several partitions, read their upstream in full first.
//
// Sources:
//
//   - FromSlice, Of: in-memory slices
//   - Range: arithmetic integer ranges
//   - FromNested: slices of slices, flattened
//   - FromMap, FromMapSorted: map entries
//   - From, FromFunc, FromSeq: arbitrary iterators (not splittable)
//
// Stages: Filter, FilterErr, Map, MapErr, FlatMap, FlatMapIter, Peek,
// Distinct, Limit, Skip, Sorted.
//
// Terminals: Collect, ToSlice, Count, Reduce, ReduceNonEmpty, Max, Min,
// ForEach, ForEachOrdered, FindFirst, FindAny, AnyMatch, AllMatch,
// NoneMatch, Iter.
package stream
