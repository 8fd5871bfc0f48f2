package hotkey

import (
	"errors"
	"fmt"
)

// Kind classifies activation failures. Most kinds need a human to act,
// so callers surface them instead of retrying.
type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindConversion
	KindPermissionDenied
	KindRegistrationConflict
	KindBrokerUnavailable
	KindBindRejected
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindConversion:
		return "ConversionError"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindRegistrationConflict:
		return "RegistrationConflict"
	case KindBrokerUnavailable:
		return "BrokerUnavailable"
	case KindBindRejected:
		return "BindRejected"
	case KindConnection:
		return "ConnectionError"
	default:
		return "Unknown"
	}
}

// Error is the structured error returned across component boundaries.
type Error struct {
	Kind        Kind
	Op          string
	Msg         string
	Remediation string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinel values like
// ErrParse work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Op == "" && t.Kind == e.Kind
}

var (
	ErrParse                = &Error{Kind: KindParse}
	ErrConversion           = &Error{Kind: KindConversion}
	ErrPermissionDenied     = &Error{Kind: KindPermissionDenied}
	ErrRegistrationConflict = &Error{Kind: KindRegistrationConflict}
	ErrBrokerUnavailable    = &Error{Kind: KindBrokerUnavailable}
	ErrBindRejected         = &Error{Kind: KindBindRejected}
	ErrConnection           = &Error{Kind: KindConnection}
)

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// RemediationOf returns the remediation text carried by err, if any.
func RemediationOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Remediation
	}
	return ""
}
