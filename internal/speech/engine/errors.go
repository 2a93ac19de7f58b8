package engine

import "errors"

// ErrorKind is a normalized error category. The host uses kinds, not
// provider-specific error types, to decide whether an operation is
// worth retrying.
type ErrorKind string

const (
	// KindInvalidParameters means a request payload could not be built
	// for the given voice mode and fields. Local, not network-related.
	KindInvalidParameters ErrorKind = "invalid_parameters"
	// KindConnectivity means the remote endpoint could not be reached.
	KindConnectivity ErrorKind = "connectivity"
	// KindServerUnavailable means the endpoint exists but cannot serve.
	KindServerUnavailable ErrorKind = "server_unavailable"
	// KindRateLimited means the endpoint throttled the request.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUnauthorized means the credentials were rejected.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindBadRequest is the catch-all for malformed parameters,
	// malformed responses, and wrapped synthesis pipeline failures.
	KindBadRequest ErrorKind = "bad_request"
)

// classifyOrder fixes the lookup order so classification is
// deterministic; BadRequest is checked last as the catch-all.
var classifyOrder = []ErrorKind{
	KindInvalidParameters,
	KindConnectivity,
	KindServerUnavailable,
	KindRateLimited,
	KindUnauthorized,
	KindBadRequest,
}

// InvokeError is a normalized provider error carrying its kind, a
// human-readable message, and the underlying cause when known.
type InvokeError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *InvokeError) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *InvokeError) Unwrap() error { return e.Cause }

// NewInvokeError builds an InvokeError of the given kind.
func NewInvokeError(kind ErrorKind, message string, cause error) *InvokeError {
	return &InvokeError{Kind: kind, Message: message, Cause: cause}
}

// Classify resolves err to a normalized kind using a provider's static
// mapping table. An *InvokeError classifies as its own kind; otherwise
// the err chain is matched against the table's sentinel causes.
// Unmatched errors fall back to KindBadRequest.
func Classify(mapping map[ErrorKind][]error, err error) ErrorKind {
	var ie *InvokeError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	for _, kind := range classifyOrder {
		for _, sentinel := range mapping[kind] {
			if errors.Is(err, sentinel) {
				return kind
			}
		}
	}
	return KindBadRequest
}
