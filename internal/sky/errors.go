package sky

import "fmt"

// ErrorCode is the machine-readable failure code of the sky objects endpoint.
type ErrorCode string

const (
	CodeInvalidLocation ErrorCode = "INVALID_LOCATION"
	CodeUpstreamError   ErrorCode = "UPSTREAM_ERROR"
	CodeUnknown         ErrorCode = "UNKNOWN"
)

// Error carries the caller-facing taxonomy: every failure of the assembler
// reduces to exactly one code with an HTTP status attached.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
