// Package observability provides OpenTelemetry tracing and metrics for
// streamkit pipelines.
//
// Pipelines always record through the global OpenTelemetry providers, which
// are no-ops until an application installs real ones:
//
//	shutdown, err := observability.Init(ctx, "word-count", "1.0.0", "production", cfg)
//	defer shutdown(ctx)
//
// Every terminal operation then produces a span named "stream.<operation>"
// and updates the instruments created by NewPipelineMetrics.
package observability
