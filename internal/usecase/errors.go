package usecase

import "fmt"

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorNotFound     ErrorCode = "NOT_FOUND"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// GenerationReason classifies why a generative call produced no usable result.
type GenerationReason string

const (
	ReasonTimeout           GenerationReason = "timeout"
	ReasonRateLimited       GenerationReason = "rate_limited"
	ReasonUpstream          GenerationReason = "upstream_error"
	ReasonMalformedOutput   GenerationReason = "malformed_output"
	ReasonMissingFields     GenerationReason = "missing_fields"
	ReasonConfigUnavailable GenerationReason = "config_unavailable"
)

// GenerationError is the typed failure of a single generative call. It never
// carries the transport error; the generator logs that itself.
type GenerationError struct {
	Reason GenerationReason
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("usecase: generation failed (%s)", e.Reason)
}
