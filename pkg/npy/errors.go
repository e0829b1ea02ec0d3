package npy

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrInvalidMagic           = errors.New("invalid npy magic")
	ErrUnsupportedVersion     = errors.New("unsupported npy version")
	ErrTruncatedFile          = errors.New("truncated npy file")
	ErrIoFailure              = errors.New("npy i/o failure")
	ErrHeaderParse            = errors.New("npy header parse error")
	ErrMissingKey             = errors.New("missing npy header key")
	ErrInvalidBooleanLiteral  = errors.New("invalid boolean literal")
	ErrInvalidShape           = errors.New("invalid npy shape")
	ErrUnsupportedElementType = errors.New("unsupported element type")
)

// Stage names the pipeline step an error was raised in.
type Stage string

const (
	StageOpen         Stage = "open"
	StageSignature    Stage = "signature"
	StageVersion      Stage = "version"
	StageHeaderLength Stage = "header length"
	StageHeaderText   Stage = "header text"
	StageMetadata     Stage = "metadata"
	StageFormat       Stage = "format"
	StagePayload      Stage = "payload"
)

// Error is the concrete error type returned by the decoder.
//
// It unwraps to its Kind and, when present, to the underlying cause, so
// both errors.Is(err, ErrTruncatedFile) and errors.Is(err, io.ErrUnexpectedEOF)
// hold for a short read.
type Error struct {
	Kind  error
	Stage Stage
	Key   string // set for ErrMissingKey
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("npy: ")
	b.WriteString(string(e.Stage))
	b.WriteString(": ")
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, stage Stage, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, stage Stage, cause error, msg string) *Error {
	return &Error{Kind: kind, Stage: stage, Msg: msg, Err: cause}
}

func missingKey(name string) *Error {
	return &Error{
		Kind:  ErrMissingKey,
		Stage: StageFormat,
		Key:   name,
		Msg:   fmt.Sprintf("missing key %q", name),
	}
}

// KindOf returns the error kind of err, or nil when err did not come from
// this package.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

// MissingKeyName reports the key named by an ErrMissingKey error.
func MissingKeyName(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == ErrMissingKey {
		return e.Key, true
	}
	return "", false
}
