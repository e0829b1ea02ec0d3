package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npytool/internal/api"
	"github.com/samcharles93/npytool/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr         string
		readTimeout  time.Duration
		maxBodyBytes int64
		rateLimit    float64
		burst        int
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the decode API over HTTP",
		Flags: append(decodeFlags(serveMaxElements),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-body-bytes",
				Usage:       "maximum request body size (0 = unlimited)",
				Value:       256 << 20,
				Destination: &maxBodyBytes,
			},
			&cli.Float64Flag{
				Name:        "rate-limit",
				Usage:       "requests per second per client on decode routes (0 = unlimited)",
				Destination: &rateLimit,
			},
			&cli.IntFlag{
				Name:        "burst",
				Usage:       "rate limiter burst size",
				Destination: &burst,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			dec := applyDecodeConfig(cmd, cfg)
			applyServeConfig(cmd, cfg, &addr, &maxBodyBytes, &rateLimit)

			server := api.NewServer(api.Config{
				Decoder:      dec,
				MaxBodyBytes: maxBodyBytes,
				RateLimit:    rateLimit,
				Burst:        burst,
				Logger:       log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "lenient_descr", dec.LenientDescr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
