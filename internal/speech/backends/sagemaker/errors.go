package sagemaker

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/voicerelay/voicerelay/internal/speech/engine"
)

// Sentinel causes this provider raises. The host classifies them
// through the static table returned by errorMapping.
var (
	ErrConnection         = errors.New("endpoint connection failed")
	ErrServiceUnavailable = errors.New("endpoint unavailable")
	ErrThrottled          = errors.New("endpoint request throttled")
	ErrAccessDenied       = errors.New("endpoint authorization failed")
	ErrBadRequest         = errors.New("bad synthesis request")
	ErrMissingKey         = errors.New("missing response field")
	ErrInvalidValue       = errors.New("invalid parameter value")
)

// errorMapping is the fixed table mapping normalized error kinds to
// the underlying causes this provider can raise.
func errorMapping() map[engine.ErrorKind][]error {
	return map[engine.ErrorKind][]error{
		engine.KindConnectivity:      {ErrConnection},
		engine.KindServerUnavailable: {ErrServiceUnavailable},
		engine.KindRateLimited:       {ErrThrottled},
		engine.KindUnauthorized:      {ErrAccessDenied},
		engine.KindBadRequest:        {ErrBadRequest, ErrMissingKey, ErrInvalidValue},
	}
}

// classifyAWS wraps an AWS SDK error in the matching sentinel so the
// host's mapping table can resolve it. Transport-level failures with
// no API error code count as connectivity problems.
func classifyAWS(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.ErrorMessage()
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException", "Throttling":
			return fmt.Errorf("%w: %s", ErrThrottled, msg)
		case "ServiceUnavailable", "ServiceUnavailableException",
			"ModelNotReadyException", "InternalFailure", "InternalDependencyException":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, msg)
		case "AccessDeniedException", "UnrecognizedClientException",
			"InvalidSignatureException", "ExpiredTokenException", "MissingAuthenticationToken":
			return fmt.Errorf("%w: %s", ErrAccessDenied, msg)
		case "ValidationError", "ValidationException":
			return fmt.Errorf("%w: %s", ErrInvalidValue, msg)
		default:
			return fmt.Errorf("%w: %s: %s", ErrBadRequest, apiErr.ErrorCode(), msg)
		}
	}

	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// badRequest re-raises a streaming pipeline failure uniformly as a
// bad-request error, preserving the original message as the cause.
func badRequest(err error) error {
	return engine.NewInvokeError(engine.KindBadRequest, err.Error(), err)
}
