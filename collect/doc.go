// Package collect defines the reduction protocol used by stream.Collect and
// the built-in collectors.
//
// A Collector folds elements of type T into a mutable accumulator A and
// finishes it into a result R:
//
//	Init() A                  // empty accumulator
//	Accumulate(A, T) (A, error)
//	Combine(A, A) (A, error)  // merge two partials; must be associative
//	Finish(A) (R, error)
//
// Parallel pipelines give every partition its own accumulator and combine the
// partials left to right in partition order, so for every built-in collector
// a parallel run produces the same result as a sequential one.
//
// Collectors nest: the downstream collector of GroupingByTo, PartitioningByTo,
// Mapping and Filtering is any other Collector.
//
//	counts := collect.GroupingByTo(func(s string) string { return s }, collect.Counting[string]())
package collect
