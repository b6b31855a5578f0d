package models

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidArgument
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	// KindFatal marks a multi-step write whose outcome is unknown. It is
	// never retried and needs an operator to reconcile.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindFatal:
		return "fatal"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by identity first and falls back to kind+message so
// that a re-created error with the same meaning still matches.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.Kind == t.Kind && e.Message == t.Message)
}

func InvalidArgument(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Fatal(err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindFatal, Message: fmt.Sprintf(format, args...), Err: err}
}

var (
	ErrUnauthorized       = &AppError{Kind: KindUnauthorized, Message: "unauthorized request"}
	ErrInvalidToken       = &AppError{Kind: KindUnauthorized, Message: "invalid access token"}
	ErrInvalidCredentials = &AppError{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrForbidden          = &AppError{Kind: KindForbidden, Message: "access denied"}

	ErrProductNotFound     = &AppError{Kind: KindNotFound, Message: "product not found"}
	ErrTransactionNotFound = &AppError{Kind: KindNotFound, Message: "transaction not found"}
	ErrDueNotFound         = &AppError{Kind: KindNotFound, Message: "dues record not found or already paid"}
	ErrUserNotFound        = &AppError{Kind: KindNotFound, Message: "user not found"}

	ErrProductSold  = &AppError{Kind: KindConflict, Message: "product is already sold"}
	ErrNotDue       = &AppError{Kind: KindConflict, Message: "this transaction has no pending dues"}
	ErrStaleVersion = &AppError{Kind: KindConflict, Message: "transaction was modified concurrently"}
	ErrDuplicate    = &AppError{Kind: KindConflict, Message: "record already exists"}
)

// KindOf extracts the taxonomy kind of err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// PublicMessage is safe to show to callers: internal details are hidden.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal && appErr.Kind != KindFatal {
		return appErr.Message
	}
	if errors.As(err, &appErr) && appErr.Kind == KindFatal {
		return "inconsistent state detected, manual reconciliation required"
	}
	return "internal server error"
}
