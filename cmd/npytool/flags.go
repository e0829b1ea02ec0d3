package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npytool/internal/logger"
)

// serveMaxElements bounds a single decoded array to 512 MiB of float64.
const serveMaxElements = 64 << 20

var (
	logLevel     string
	logFormat    string
	debug        bool
	lenientDescr bool
	maxElements  int

	// cfg is loaded once by setup and consulted by each command for
	// values its flags left unset.
	cfg Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// decodeFlags returns the decoder flags; maxDefault seeds --max-elements.
func decodeFlags(maxDefault int) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "lenient-descr",
			Usage:       "map unknown descr type codes to uint8 instead of failing",
			Destination: &lenientDescr,
		},
		&cli.IntFlag{
			Name:        "max-elements",
			Usage:       "reject arrays declaring more elements than this (0 = no limit)",
			Value:       maxDefault,
			Destination: &maxElements,
		},
	}
}

// setup loads the config file and installs the logger every command
// pulls from the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig()
	cfg = loaded
	applyLoggingConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log := logger.Setup(os.Stderr, level, logFormat)
	if err != nil {
		log.Warn("ignoring config file", "path", configPath(), "err", err)
	}
	return logger.WithContext(ctx, log), nil
}
