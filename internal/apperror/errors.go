// Package apperror holds the error taxonomy surfaced by every command and query.
package apperror

import (
	"errors"
	"fmt"
)

// Kind groups codes by how a caller should react.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindTransient     Kind = "transient"
)

// Stable codes. Clients match on these, so never rename one.
const (
	CodeInvalidInput                = "InvalidInput"
	CodeInvalidStatus               = "InvalidStatus"
	CodeAdminCannotConfirmDelivery  = "AdminCannotConfirmDelivery"
	CodeCustomerTransitionForbidden = "CustomerTransitionForbidden"
	CodeRoleNotPermitted            = "RoleNotPermitted"
	CodeOrderNotFound               = "OrderNotFound"
	CodeNotificationNotFound        = "NotificationNotFound"
	CodeInvalidTransition           = "InvalidTransition"
	CodeOrderTerminal               = "OrderTerminal"
	CodeNotDeletable                = "NotDeletable"
	CodeConcurrentModification      = "ConcurrentModification"
	CodeStoreUnavailable            = "StoreUnavailable"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Transient wraps a store failure the caller may retry.
func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Code: CodeStoreUnavailable, Message: "store unavailable, retry later", Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// CodeOf returns the stable code of err, or "" when err is not an *Error.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}
