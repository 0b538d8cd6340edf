package node

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	MalformedPayload ErrorCode = "malformed-payload"
	SourceFailure    ErrorCode = "source-failure"
	SinkFailure      ErrorCode = "sink-failure"
	InvalidConfig    ErrorCode = "invalid-config"
	UnknownError     ErrorCode = "unknown-error"
)

type ErrorInfo struct {
	Code    ErrorCode // machine-readble ErrorCode enumeration
	Message string    // human-readable debug message
	Cause   error     // underlying error, if any
}

func (e *ErrorInfo) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ErrorInfo) Unwrap() error {
	return e.Cause
}

func NewErr(code ErrorCode, format string, args ...any) error {
	return &ErrorInfo{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a code and message to a lower-level error.
func WrapErr(code ErrorCode, cause error, format string, args ...any) error {
	return &ErrorInfo{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func IsMalformedPayloadError(err error) bool {
	return IsError(err, MalformedPayload)
}

func IsSourceFailureError(err error) bool {
	return IsError(err, SourceFailure)
}

func IsSinkFailureError(err error) bool {
	return IsError(err, SinkFailure)
}

func IsInvalidConfigError(err error) bool {
	return IsError(err, InvalidConfig)
}

func IsError(err error, ofType ErrorCode) bool {
	var e *ErrorInfo
	if errors.As(err, &e) {
		return e.Code == ofType
	}
	return false
}
