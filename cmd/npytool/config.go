package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/npytool/pkg/npy"
)

const envConfigPath = "NPYTOOL_CONFIG"

// Config represents the npytool configuration file
// (~/.config/npytool/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Export
	OutputFile   string `yaml:"output_file"`
	OutputFormat string `yaml:"output_format"`

	// Decoding
	LenientDescr *bool `yaml:"lenient_descr"`
	MaxElements  *int  `yaml:"max_elements"`

	// Inspect
	InspectWorkers *int `yaml:"inspect_workers"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string   `yaml:"server_address"`
	MaxBodyBytes  *int64   `yaml:"max_body_bytes"`
	RateLimit     *float64 `yaml:"rate_limit"`
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "npytool", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config
// and no error.
func LoadConfig() (Config, error) {
	path := configPath()
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyDecodeConfig fills decoder settings from the config file and
// returns the resulting decoder.
func applyDecodeConfig(c *cli.Command, cfg Config) npy.Decoder {
	if cfg.LenientDescr != nil && !c.IsSet("lenient-descr") {
		lenientDescr = *cfg.LenientDescr
	}
	if cfg.MaxElements != nil && !c.IsSet("max-elements") {
		maxElements = *cfg.MaxElements
	}
	return npy.Decoder{LenientDescr: lenientDescr, MaxElements: maxElements}
}

func applyExportConfig(c *cli.Command, cfg Config, output, format *string) {
	if cfg.OutputFile != "" && !c.IsSet("output-file") {
		*output = cfg.OutputFile
	}
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		*format = cfg.OutputFormat
	}
}

func applyInspectConfig(c *cli.Command, cfg Config, workers *int) {
	if cfg.InspectWorkers != nil && !c.IsSet("workers") {
		*workers = *cfg.InspectWorkers
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBody *int64, rateLimit *float64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body-bytes") {
		*maxBody = *cfg.MaxBodyBytes
	}
	if cfg.RateLimit != nil && !c.IsSet("rate-limit") {
		*rateLimit = *cfg.RateLimit
	}
}
