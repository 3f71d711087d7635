// Package config loads the optional deskmate YAML config file.
//
// Values from the file are defaults: command line flags and environment
// variables override them. References of the form ${VAR_NAME} are replaced
// by the environment variable before the YAML is parsed.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default file names inside the data directory.
const (
	DefaultDataDir              = "data"
	DefaultCalendarFile         = "calendar.json"
	DefaultDeskInfoFile         = "desk_info.json"
	DefaultDeskReservationsFile = "desk_reservations.json"

	DefaultTransport   = "stdio"
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = ":9090"
)

// Config is the deskmate configuration.
type Config struct {
	Data        DataConfig    `yaml:"data"`
	DefaultUser string        `yaml:"default_user,omitempty"`
	ReadOnly    bool          `yaml:"read_only,omitempty"`
	Transport   string        `yaml:"transport,omitempty"`
	HTTP        HTTPConfig    `yaml:"http"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Log         LogConfig     `yaml:"log"`
}

// DataConfig locates the JSON documents. Relative file paths are resolved
// against Dir.
type DataConfig struct {
	Dir              string `yaml:"dir,omitempty"`
	Calendar         string `yaml:"calendar,omitempty"`
	DeskInfo         string `yaml:"desk_info,omitempty"`
	DeskReservations string `yaml:"desk_reservations,omitempty"`
}

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Addr           string `yaml:"addr,omitempty"`
	IdentityHeader string `yaml:"identity_header,omitempty"`
}

// MetricsConfig configures the dedicated metrics server.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Addr    string `yaml:"addr,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`
	Debug  bool   `yaml:"debug,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	enabled := true
	return Config{
		Data: DataConfig{
			Dir:              DefaultDataDir,
			Calendar:         DefaultCalendarFile,
			DeskInfo:         DefaultDeskInfoFile,
			DeskReservations: DefaultDeskReservationsFile,
		},
		Transport: DefaultTransport,
		HTTP: HTTPConfig{
			Addr:           DefaultHTTPAddr,
			IdentityHeader: "X-User",
		},
		Metrics: MetricsConfig{
			Enabled: &enabled,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogConfig{Format: "text"},
	}
}

// envVarPattern matches ${VAR_NAME} patterns for environment variable expansion
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value. Unset
// variables expand to "".
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Load reads the YAML file at path over Default(). An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(expandEnvVars(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed set of options.
func (c *Config) Validate() error {
	switch c.Transport {
	case "", "stdio", "streamable-http":
	default:
		return fmt.Errorf("unsupported transport %q (supported: stdio, streamable-http)", c.Transport)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (supported: text, json)", c.Log.Format)
	}
	return nil
}

// MetricsEnabled reports whether the metrics server should run.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// CalendarPath returns the calendar document path.
func (c *Config) CalendarPath() string {
	return c.resolve(c.Data.Calendar, DefaultCalendarFile)
}

// DeskInfoPath returns the desk metadata document path.
func (c *Config) DeskInfoPath() string {
	return c.resolve(c.Data.DeskInfo, DefaultDeskInfoFile)
}

// DeskReservationsPath returns the reservations document path.
func (c *Config) DeskReservationsPath() string {
	return c.resolve(c.Data.DeskReservations, DefaultDeskReservationsFile)
}

func (c *Config) resolve(file, fallback string) string {
	if file == "" {
		file = fallback
	}
	if filepath.IsAbs(file) || c.Data.Dir == "" {
		return file
	}
	return filepath.Join(c.Data.Dir, file)
}
