package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
)

// ErrorCode represents a specific error type for agent operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUpstreamFailure indicates the Jarvis backend failed or answered non-2xx.
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	// ErrCodeLLMUnavailable indicates the LLM call failed at transport level.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeLLMInvalidOutput indicates the LLM answered with something other than a JSON object.
	ErrCodeLLMInvalidOutput ErrorCode = "LLM_INVALID_OUTPUT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal is used for anything unclassified.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AIError represents a structured error for agent operations.
type AIError struct {
	Code    ErrorCode
	Message string
	Status  int // upstream HTTP status, when there was one
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AIError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AIError) WithContext(key string, value interface{}) *AIError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus returns the status the agent API answers with for this error.
// Backend failures keep the backend's own status so callers see what the backend said.
func (e *AIError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamFailure:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case ErrCodeLLMUnavailable, ErrCodeLLMInvalidOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AIError {
	return &AIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// UpstreamFailure creates a backend failure carrying the upstream status and detail.
func UpstreamFailure(status int, detail string, cause error) *AIError {
	return &AIError{Code: ErrCodeUpstreamFailure, Message: detail, Status: status, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *AIError {
	return &AIError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// LLMInvalidOutput creates an error for unparseable LLM content.
func LLMInvalidOutput(content string, cause error) *AIError {
	e := &AIError{Code: ErrCodeLLMInvalidOutput, Message: "LLM JSON 解析失败", Cause: cause}
	return e.WithContext("content", content)
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AIError {
	return &AIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string, cause error) *AIError {
	return &AIError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *AIError {
	return &AIError{Code: code, Message: msg, Cause: cause}
}

// As returns the AIError in err's chain, if any.
func As(err error) (*AIError, bool) {
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr, true
	}
	return nil, false
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if aiErr, ok := As(err); ok {
		return aiErr.Code == code
	}
	return false
}

// IsUpstream reports whether err came from an external call (backend or LLM).
func IsUpstream(err error) bool {
	return IsCode(err, ErrCodeUpstreamFailure) ||
		IsCode(err, ErrCodeLLMUnavailable) ||
		IsCode(err, ErrCodeLLMInvalidOutput)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
