// Package errors provides the structured error type shared by streamkit
// packages. Every failure raised by a pipeline, collector or configuration
// loader is an *AppError carrying a machine-readable code, so callers can
// branch with errors.Is against the exported sentinels.
package errors
