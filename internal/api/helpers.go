package api

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/npytool/internal/source"
)

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type errorBody struct {
	Error ResponseError `json:"error"`
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return writeJSON(c, status, errorBody{Error: ResponseError{
		Message: msg,
		Type:    errType,
		Code:    code,
		Param:   param,
	}})
}

// writeFailure reports err with the status its kind maps to.
func writeFailure(c *echo.Context, err error) error {
	status, errType, code := classify(err)
	return writeError(c, status, errType, err.Error(), "", code)
}

// writeJSON encodes v straight onto the response. Float slices can be
// large, so the body is streamed rather than buffered.
func writeJSON(c *echo.Context, status int, v any) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(v)
}

// requestBody returns the capped, decompressed request body. The caller
// closes it.
func (s *Server) requestBody(c *echo.Context) (io.ReadCloser, error) {
	req := c.Request()
	enc, err := source.ParseEncoding(req.Header.Get(echo.HeaderContentEncoding))
	if err != nil {
		return nil, newInvalidRequest(err.Error())
	}
	var body io.Reader = req.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Response(), req.Body, s.cfg.MaxBodyBytes)
	}
	rc, err := source.Decompress(body, enc)
	if err != nil {
		return nil, newInvalidRequest(err.Error())
	}
	return rc, nil
}
