// Package api is the console's HTTP access layer to the Amoura backend. It
// attaches the bearer credential, classifies every response into a uniform
// error taxonomy, tears the session down on authentication failure, and
// walks cursor-paginated collections.
package api

import "errors"

// ErrorKind classifies a failed backend operation. Callers pick user-facing
// copy by kind; each kind carries a sensible default message for callers
// that do not.
type ErrorKind string

const (
	// KindNetwork covers transport failures and backend unavailability
	// (no response, or any 5xx).
	KindNetwork ErrorKind = "network"
	// KindAuth covers 401: the credential is invalid or expired. An auth
	// error always implies the stored session was torn down.
	KindAuth ErrorKind = "auth"
	// KindPermission covers 403 and client-side capability denials, which
	// share one shape on purpose.
	KindPermission ErrorKind = "permission"
	// KindNotFound covers 404.
	KindNotFound ErrorKind = "not_found"
	// KindValidation covers malformed caller input rejected before any
	// network call.
	KindValidation ErrorKind = "validation"
	// KindProtocol covers 2xx responses whose body could not be parsed.
	KindProtocol ErrorKind = "protocol"
	// KindServer covers every other non-2xx status.
	KindServer ErrorKind = "server"
)

// Error is the uniform failure shape returned by every boundary operation.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status holds the HTTP status code when one was received, 0 otherwise.
	Status int
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error, substituting the kind's default message when
// msg is blank.
func NewError(kind ErrorKind, msg string) *Error {
	if msg == "" {
		msg = defaultMessage(kind)
	}
	return &Error{Kind: kind, Message: msg}
}

// KindOf extracts the ErrorKind from err, or "" when err is not an access
// layer error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func defaultMessage(kind ErrorKind) string {
	switch kind {
	case KindNetwork:
		return "Network connection failed"
	case KindAuth:
		return "Session expired or invalid"
	case KindPermission:
		return "Access forbidden"
	case KindNotFound:
		return "Resource not found"
	case KindValidation:
		return "Invalid input"
	case KindProtocol:
		return "Invalid response from server."
	case KindServer:
		return "Request failed"
	default:
		return "Request failed"
	}
}
