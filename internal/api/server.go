package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/npytool/internal/dataset"
	"github.com/samcharles93/npytool/internal/logger"
	"github.com/samcharles93/npytool/internal/version"
	"github.com/samcharles93/npytool/pkg/npy"
)

type Config struct {
	Decoder npy.Decoder
	// MaxBodyBytes caps the raw request body. Zero disables the cap.
	MaxBodyBytes int64
	// RateLimit is the sustained requests per second allowed per client.
	// Zero disables limiting.
	RateLimit float64
	Burst     int
	Logger    logger.Logger
}

type Server struct {
	cfg Config
	log logger.Logger
}

func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Server{cfg: cfg, log: log}
}

// DecodeResponse carries a decoded array. Values are row-major.
type DecodeResponse struct {
	ID     string         `json:"id"`
	Shape  [2]int         `json:"shape"`
	Values dataset.Floats `json:"values"`
}

// InspectResponse carries a parsed header.
type InspectResponse struct {
	ID     string      `json:"id"`
	Header *npy.Header `json:"header"`
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/version", s.handleVersion)

	var mw []echo.MiddlewareFunc
	if s.cfg.RateLimit > 0 {
		mw = append(mw, newRateLimiter(s.cfg.RateLimit, s.cfg.Burst).middleware)
	}
	e.POST("/v1/decode", s.handleDecode, mw...)
	e.POST("/v1/inspect", s.handleInspect, mw...)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Resolve())
}

func (s *Server) handleDecode(c *echo.Context) error {
	dec, err := s.decoderFor(c)
	if err != nil {
		return writeFailure(c, err)
	}
	body, err := s.requestBody(c)
	if err != nil {
		return writeFailure(c, err)
	}
	defer func() { _ = body.Close() }()

	id := uuid.NewString()
	arr, err := dec.DecodeReader(body)
	if err != nil {
		s.log.Warn("decode rejected", "id", id, "err", err)
		return writeFailure(c, err)
	}
	s.log.Debug("decoded", "id", id, "rows", arr.Rows(), "cols", arr.Cols())
	return writeJSON(c, http.StatusOK, DecodeResponse{
		ID:     id,
		Shape:  arr.Shape,
		Values: arr.Values,
	})
}

func (s *Server) handleInspect(c *echo.Context) error {
	dec, err := s.decoderFor(c)
	if err != nil {
		return writeFailure(c, err)
	}
	body, err := s.requestBody(c)
	if err != nil {
		return writeFailure(c, err)
	}
	defer func() { _ = body.Close() }()

	h, err := dec.ReadHeader(body)
	if err != nil {
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, InspectResponse{ID: uuid.NewString(), Header: h})
}

// decoderFor applies the optional ?lenient= query override.
func (s *Server) decoderFor(c *echo.Context) (npy.Decoder, error) {
	dec := s.cfg.Decoder
	if v := c.Request().URL.Query().Get("lenient"); v != "" {
		lenient, err := strconv.ParseBool(v)
		if err != nil {
			return dec, newInvalidRequest("lenient must be a boolean")
		}
		dec.LenientDescr = lenient
	}
	return dec, nil
}
