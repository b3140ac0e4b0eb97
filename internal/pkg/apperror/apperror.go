package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindForbidden        Kind = "FORBIDDEN"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindScopeMissing     Kind = "SCOPE_MISSING"
	KindDuplicateScope   Kind = "DUPLICATE_SCOPE"
	KindCodeCollision    Kind = "CODE_COLLISION"
	KindNotFound         Kind = "NOT_FOUND"
	KindServerError      Kind = "SERVER_ERROR"
)

// MsgServerError is the only message a client ever sees for unexpected failures.
const MsgServerError = "Terjadi kesalahan server"

// Error carries a client-facing message (Indonesian) and an optional cause that
// is only ever logged.
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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func Validation(message string) *Error      { return New(KindValidationFailed, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }

func ScopeMissing() *Error {
	return New(KindScopeMissing, "Operator tidak memiliki scope prodi/angkatan")
}

func DuplicateScope(prodi, angkatan string) *Error {
	return New(KindDuplicateScope, fmt.Sprintf("Operator untuk %s angkatan %s sudah ada", prodi, angkatan))
}

func CodeCollision() *Error {
	return New(KindCodeCollision, "Kode operator sudah ada, coba lagi")
}

func Internal(cause error) *Error {
	return Wrap(KindServerError, MsgServerError, cause)
}

// KindOf reports the kind of err, treating anything untyped as a server error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServerError
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
