package config

import (
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/statetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statetree.yaml"

	// DefaultTemplatesDir is the default template directory, relative to
	// the configuration file.
	DefaultTemplatesDir = "templates"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "statetree"

	// DefaultAddr is the default listen address of the serve command.
	DefaultAddr = ":8080"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config represents the complete statetree.yaml configuration.
type Config struct {
	// Templates configures where template sources are read from.
	Templates TemplatesConfig `yaml:"templates"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`

	// Metrics configures Prometheus collectors.
	Metrics MetricsConfig `yaml:"metrics"`

	// Serve configures the HTTP server.
	Serve ServeConfig `yaml:"serve"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TemplatesConfig configures template sources.
type TemplatesConfig struct {
	// Dir is the template directory.
	Dir string `yaml:"dir,omitempty"`

	// S3 reads templates from a bucket when Bucket is set.
	S3 S3Config `yaml:"s3,omitempty"`
}

// S3Config locates templates in S3.
type S3Config struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn and error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// New returns a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads statetree.yaml from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads the configuration at path. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{configPath: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.New(errors.CodeConfig).
			WithDetailf("read %s", path).
			Wrap(err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfig).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults() {
	if c.Templates.Dir == "" {
		c.Templates.Dir = DefaultTemplatesDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.Log.Level) {
		return errors.New(errors.CodeConfig).
			WithDetailf("unknown log level %q", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return errors.New(errors.CodeConfig).
			WithDetailf("unknown log format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if c.Templates.S3.Prefix != "" && c.Templates.S3.Bucket == "" {
		return errors.New(errors.CodeConfig).
			WithDetail("templates.s3.prefix is set without templates.s3.bucket")
	}
	return nil
}

// TemplatesPath returns the absolute template directory.
func (c *Config) TemplatesPath() string {
	if filepath.IsAbs(c.Templates.Dir) {
		return c.Templates.Dir
	}
	return filepath.Join(c.Dir(), c.Templates.Dir)
}

// UsesS3 reports whether templates are read from S3.
func (c *Config) UsesS3() bool {
	return c.Templates.S3.Bucket != ""
}
