package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline lifecycle errors
const (
	// ErrCodeExhaustedPipeline indicates a pipeline handle was used after a
	// terminal operation or after further chaining.
	ErrCodeExhaustedPipeline ErrorCode = "EXHAUSTED_PIPELINE"
	// ErrCodeCancelled indicates the caller's context ended the evaluation.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeStageFailed indicates a caller-supplied stage or action returned an error.
	ErrCodeStageFailed ErrorCode = "STAGE_FAILED"
)

// Reduction errors
const (
	// ErrCodeDuplicateKey indicates two elements mapped to the same key
	// without a merge function.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	// ErrCodeEmptyReduction indicates an identity-less reduction over no elements.
	ErrCodeEmptyReduction ErrorCode = "EMPTY_REDUCTION"
)

// Construction errors
const (
	// ErrCodeInvalidRange indicates malformed range bounds or step.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"
	// ErrCodeInvalidConfig indicates a configuration value failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCancelled: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Only cancellation qualifies: a new pipeline built from the same source may
// succeed once the caller supplies a live context. The pipeline that failed
// is exhausted either way.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
