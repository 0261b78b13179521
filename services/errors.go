package services

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindBusiness     Kind = "business"
	KindExternal     Kind = "external"
)

// Error is a failure the caller can act on. Anything else returned by a
// service is an internal error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInsufficientCoins     = &Error{Kind: KindBusiness, Message: "insufficient coins"}
	ErrSubmissionNotPending  = &Error{Kind: KindBusiness, Message: "submission is not pending"}
	ErrWithdrawalNotPending  = &Error{Kind: KindBusiness, Message: "withdrawal is not pending"}
	ErrNoSlotsLeft           = &Error{Kind: KindBusiness, Message: "task has no open slots"}
	ErrPaymentAlreadyApplied = &Error{Kind: KindConflict, Message: "payment already recorded"}
	ErrRegistrationClosed    = &Error{Kind: KindForbidden, Message: "registration is closed"}
	ErrMaintenance           = &Error{Kind: KindForbidden, Message: "service is under maintenance"}
)

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func businessf(format string, args ...interface{}) error {
	return &Error{Kind: KindBusiness, Message: fmt.Sprintf(format, args...)}
}

func external(op string, err error) error {
	return &Error{Kind: KindExternal, Message: fmt.Sprintf("%s: %v", op, err)}
}

// KindOf returns the kind of err, or "" for internal errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

var errGatewayNotConfigured = errors.New("payment gateway is not configured")
