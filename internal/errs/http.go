package errs

import "strings"

// Response is the error envelope written to clients.
//
// Example:
//
//	{ "success": false, "error": "Todo not found." }
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST"), logged server-side.
//   - Message: human-friendly message, the only text the client sees.
//   - Status: HTTP status code.
//
// cause holds the original error for logging. It is exposed through Unwrap
// so errors.Is/As can still reach driver errors.
type HTTPError struct {
	Code    string
	Message string
	Status  int

	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
// It returns only the Message so client text and log text line up.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Cause returns the error that triggered this HTTPError, or nil.
func (e *HTTPError) Cause() error {
	return e.cause
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		cause:   e.cause,
	}
}

// WithCause returns a *copy* of this HTTPError that wraps cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		cause:   cause,
	}
}

// Response renders the client-facing envelope.
func (e *HTTPError) Response() Response {
	return Response{Success: false, Error: e.Message}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
