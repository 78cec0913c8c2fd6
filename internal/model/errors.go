package model

import (
	"errors"
	"fmt"
)

// Storage-level sentinels returned by AccountStore implementations.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Kind classifies why an authentication operation failed.
type Kind string

const (
	KindAccountNotFound    Kind = "account_not_found"
	KindInvalidPassword    Kind = "invalid_password"
	KindWrongAuthMethod    Kind = "wrong_auth_method"
	KindProviderMismatch   Kind = "provider_mismatch"
	KindIdentifierTaken    Kind = "identifier_taken"
	KindInvalidInput       Kind = "invalid_input"
	KindMalformed          Kind = "malformed"
	KindBadSignature       Kind = "bad_signature"
	KindExpired            Kind = "expired"
	KindStorageUnavailable Kind = "storage_unavailable"
)

// Message returns the text shown to end users for the kind.
func (k Kind) Message() string {
	switch k {
	case KindAccountNotFound:
		return "User not found"
	case KindInvalidPassword:
		return "Password is Invalid"
	case KindWrongAuthMethod, KindProviderMismatch:
		return "Sign in with a different provider"
	case KindIdentifierTaken:
		return "Identifier is already taken"
	case KindInvalidInput:
		return "Invalid input"
	case KindMalformed, KindBadSignature:
		return "Invalid session token"
	case KindExpired:
		return "Session expired"
	default:
		return "Service temporarily unavailable"
	}
}

// Error is a typed authentication failure.
// Two errors match under errors.Is when their kinds are equal.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for matching with errors.Is.
var (
	ErrAccountNotFound    = &Error{Kind: KindAccountNotFound, Msg: "account not found"}
	ErrInvalidPassword    = &Error{Kind: KindInvalidPassword, Msg: "invalid password"}
	ErrWrongAuthMethod    = &Error{Kind: KindWrongAuthMethod, Msg: "account has no password set"}
	ErrProviderMismatch   = &Error{Kind: KindProviderMismatch, Msg: "identifier belongs to an account not linked to this provider"}
	ErrIdentifierTaken    = &Error{Kind: KindIdentifierTaken, Msg: "identifier is already taken"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Msg: "invalid input"}
	ErrMalformed          = &Error{Kind: KindMalformed, Msg: "malformed token"}
	ErrBadSignature       = &Error{Kind: KindBadSignature, Msg: "token signature is invalid"}
	ErrExpired            = &Error{Kind: KindExpired, Msg: "token expired"}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable, Msg: "storage unavailable"}
)

// NewError builds an Error of the given kind wrapping err.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Unavailable wraps a collaborator failure as KindStorageUnavailable.
func Unavailable(msg string, err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf classifies err. It returns the empty kind for nil and
// KindStorageUnavailable for errors that carry no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageUnavailable
}
