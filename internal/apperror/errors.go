package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so call sites and the HTTP layer can react to the
// outcome without string matching.
type Kind string

const (
	// KindBusinessRule marks an expected, user-facing rule violation
	// (blocking request exists, cooldown active, extension window closed).
	KindBusinessRule Kind = "BUSINESS_RULE"
	// KindNotFound marks a missing user or record referenced by the caller.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidCode marks a failed OTP verification. The message is the
	// same whether the code was absent or wrong.
	KindInvalidCode Kind = "INVALID_CODE"
	// KindDeliveryFailed marks a notification the gateway could not send.
	KindDeliveryFailed Kind = "DELIVERY_FAILED"
	// KindUnauthorized marks a rejected credential on a guarded route.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindInternal marks infrastructure failures (store, gateway transport).
	KindInternal Kind = "INTERNAL"
)

// Error is the tagged failure variant every core operation returns.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match against the predeclared variants by kind and
// message, so sentinel comparisons keep working after wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Message == other.Message
}

// BusinessRule builds a user-facing rule violation.
func BusinessRule(message string) *Error {
	return &Error{Kind: KindBusinessRule, Message: message}
}

// NotFound builds a missing-entity error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidCode builds the generic OTP rejection. Callers must not produce
// more specific variants, that would leak which codes exist.
func InvalidCode() *Error {
	return &Error{Kind: KindInvalidCode, Message: "invalid code, request a new one and try again"}
}

// DeliveryFailed wraps a gateway send failure.
func DeliveryFailed(cause error) *Error {
	return &Error{Kind: KindDeliveryFailed, Message: "could not deliver notification", Cause: cause}
}

// Unauthorized builds a credential rejection for guarded routes.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps an infrastructure failure. The message stays generic, the
// cause is for the logs.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Cause: cause}
}

// KindOf extracts the kind from any error, defaulting to KindInternal for
// unclassified failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status the routing layer uses.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBusinessRule:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCode:
		return http.StatusBadRequest
	case KindDeliveryFailed:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message, hiding internal causes.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
