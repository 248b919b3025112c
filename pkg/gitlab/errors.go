package gitlab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrInvalidConfig is returned when the client cannot be constructed from the supplied settings.
var ErrInvalidConfig = errors.New("invalid GitLab configuration")

// ErrorKind classifies every failure a tool can report.
type ErrorKind string

const (
	// KindInvalidParams means the caller-supplied data was wrong and can be corrected.
	KindInvalidParams ErrorKind = "invalid_params"
	// KindInvalidRequest means GitLab rejected the configured credential.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindInternal covers transport failures, malformed upstream payloads and unmapped statuses.
	KindInternal ErrorKind = "internal"
)

// Error is the structured failure returned by the client, the position parser and the tools.
// Detail optionally carries the underlying diagnostic: GitLab's error body or the raw error text.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  any
}

func (e *Error) Error() string {
	if e.Detail == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, detailString(e.Detail))
}

// Code returns the JSON-RPC error code matching the error kind.
func (e *Error) Code() int {
	switch e.Kind {
	case KindInvalidParams:
		return mcp.INVALID_PARAMS
	case KindInvalidRequest:
		return mcp.INVALID_REQUEST
	default:
		return mcp.INTERNAL_ERROR
	}
}

// ErrorPayload is the wire form of an Error inside a tool result.
type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Detail  any       `json:"detail,omitempty"`
}

// Payload converts the error into its wire form.
func (e *Error) Payload() ErrorPayload {
	return ErrorPayload{
		Kind:    e.Kind,
		Code:    e.Code(),
		Message: e.Message,
		Detail:  e.Detail,
	}
}

// InvalidParams builds a KindInvalidParams error.
func InvalidParams(message string, detail any) *Error {
	return &Error{Kind: KindInvalidParams, Message: message, Detail: detail}
}

// InvalidRequest builds a KindInvalidRequest error.
func InvalidRequest(message string, detail any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message, Detail: detail}
}

// Internal builds a KindInternal error.
func Internal(message string, detail any) *Error {
	return &Error{Kind: KindInternal, Message: message, Detail: detail}
}

// AsError returns err as a structured error. Anything that is not already one is reported as internal.
func AsError(err error) *Error {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr
	}
	return Internal("unexpected failure", err.Error())
}

func detailString(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case json.RawMessage:
		return string(d)
	case fmt.Stringer:
		return d.String()
	default:
		return fmt.Sprintf("%v", d)
	}
}
