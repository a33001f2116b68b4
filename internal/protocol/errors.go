package protocol

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or blank setting detected when a client is built.
type ConfigurationError struct {
	Service string
	Field   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s client is not configured: %s is blank", e.Service, e.Field)
}

// TransportError covers connection failures, timeouts and non-2xx responses.
// It is the only kind eligible for endpoint fallback.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error from %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("transport error from %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type DenialReason string

const (
	DenialSignature    DenialReason = "signature"
	DenialSubscription DenialReason = "subscription"
	DenialUnknown      DenialReason = "unknown"
)

// AccessDeniedError is a well-formed denial body. Retrying with the same
// credentials cannot succeed.
type AccessDeniedError struct {
	Service string
	Reason  DenialReason
}

func (e *AccessDeniedError) Error() string {
	switch e.Reason {
	case DenialSignature:
		return fmt.Sprintf("%s access denied: request signature check failed, verify login and password", e.Service)
	case DenialSubscription:
		return fmt.Sprintf("%s access denied: the login has no active subscription", e.Service)
	default:
		return fmt.Sprintf("%s access denied", e.Service)
	}
}

func (e *AccessDeniedError) Retriable() bool {
	return false
}

// ProtocolMismatchError is raised before any network call when an operation
// is invoked without a parameter the upstream requires.
type ProtocolMismatchError struct {
	Operation string
	Parameter string
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("%s requires a non-empty %s", e.Operation, e.Parameter)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsAccessDenied(err error) bool {
	var ae *AccessDeniedError
	return errors.As(err, &ae)
}

func IsProtocolMismatch(err error) bool {
	var pe *ProtocolMismatchError
	return errors.As(err, &pe)
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
