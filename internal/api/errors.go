package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/npytool/pkg/npy"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// errorCodes names each decoder error kind in responses.
var errorCodes = map[error]string{
	npy.ErrInvalidMagic:           "invalid_magic",
	npy.ErrUnsupportedVersion:     "unsupported_version",
	npy.ErrTruncatedFile:          "truncated_file",
	npy.ErrIoFailure:              "io_failure",
	npy.ErrHeaderParse:            "header_parse",
	npy.ErrMissingKey:             "missing_key",
	npy.ErrInvalidBooleanLiteral:  "invalid_boolean_literal",
	npy.ErrInvalidShape:           "invalid_shape",
	npy.ErrUnsupportedElementType: "unsupported_element_type",
}

// classify maps a handler error to a status, an error type and a code.
func classify(err error) (status int, errType, code string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "invalid_request_error", "body_too_large"
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error", ""
	}
	kind := npy.KindOf(err)
	if kind == nil {
		return http.StatusInternalServerError, "server_error", ""
	}
	if kind == npy.ErrUnsupportedElementType {
		return http.StatusUnprocessableEntity, "decode_error", errorCodes[kind]
	}
	return http.StatusBadRequest, "decode_error", errorCodes[kind]
}
