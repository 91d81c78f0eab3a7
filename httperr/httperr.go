package httperr

import (
	"errors"
	"strings"
)

// Kind classifies a failure. Errors of the same kind match each other via errors.Is,
// regardless of their messages or wrapped causes.
type Kind uint8

const (
	Unknown Kind = iota
	InvalidURL
	Connection
	TLS
	CapabilityUnavailable
	MalformedStatusLine
	MalformedHeader
	MalformedChunk
	TruncatedBody
	Serialization
	TooLarge
)

func (k Kind) String() string {
	lut := [...]string{
		Unknown:               "unknown error",
		InvalidURL:            "invalid url",
		Connection:            "connection error",
		TLS:                   "tls error",
		CapabilityUnavailable: "capability unavailable",
		MalformedStatusLine:   "malformed status line",
		MalformedHeader:       "malformed header",
		MalformedChunk:        "malformed chunk",
		TruncatedBody:         "truncated body",
		Serialization:         "serialization error",
		TooLarge:              "too large",
	}

	if int(k) >= len(lut) {
		return lut[Unknown]
	}

	return lut[k]
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap returns an error of the given kind carrying err as its cause. A nil err
// still produces a non-nil error.
func Wrap(kind Kind, err error, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())

	if len(e.Message) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidURL            = &Error{Kind: InvalidURL}
	ErrConnection            = &Error{Kind: Connection}
	ErrTLS                   = &Error{Kind: TLS}
	ErrCapabilityUnavailable = &Error{Kind: CapabilityUnavailable}
	ErrMalformedStatusLine   = &Error{Kind: MalformedStatusLine}
	ErrMalformedHeader       = &Error{Kind: MalformedHeader}
	ErrMalformedChunk        = &Error{Kind: MalformedChunk}
	ErrTruncatedBody         = &Error{Kind: TruncatedBody}
	ErrSerialization         = &Error{Kind: Serialization}
	ErrTooLarge              = &Error{Kind: TooLarge}
)

// KindOf returns the kind of the first *Error in the chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}
