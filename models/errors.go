package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout             = "RATE_TIMEOUT"
	ErrCodeSubmitFailed        = "SUBMIT_FAILED"
	ErrCodeLocatorFailed       = "LOCATOR_FAILED"
	ErrCodeBrowserCrash        = "BROWSER_CRASH"
	ErrCodeInsufficientContent = "INSUFFICIENT_CONTENT"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RateError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type RateError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *RateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RateError) Unwrap() error {
	return e.Err
}

// NewRateError creates a new RateError.
func NewRateError(code, message string, err error) *RateError {
	return &RateError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *RateError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
