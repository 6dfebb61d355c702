// Package config loads the doclinks YAML configuration file.
package config

import (
	"bytes"
	stdErrors "errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// DefaultFile is the configuration file picked up from the working
// directory when no path is given.
const DefaultFile = ".doclinks.yaml"

// Config represents the application configuration.
type Config struct {
	Check    CheckConfig    `yaml:"check"`
	External ExternalConfig `yaml:"external"`
	Output   OutputConfig   `yaml:"output"`
}

// CheckConfig selects the documents to scan.
type CheckConfig struct {
	Pattern string   `yaml:"pattern,omitempty"` // glob relative to the scan root
	Ignore  []string `yaml:"ignore,omitempty"`  // replaces the default ignore list when set
}

// ExternalConfig controls the best-effort liveness check of http(s) links.
type ExternalConfig struct {
	Enabled           bool             `yaml:"enabled"`
	Timeout           string           `yaml:"timeout,omitempty"`
	Concurrency       int              `yaml:"concurrency,omitempty"`
	UserAgent         string           `yaml:"user_agent,omitempty"`
	MaxRedirects      int              `yaml:"max_redirects"`
	Retries           int              `yaml:"retries,omitempty"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// OutputConfig represents report and metrics output.
type OutputConfig struct {
	Report      string       `yaml:"report,omitempty"` // JSON report path
	Format      ReportFormat `yaml:"format,omitempty"` // stdout format
	MetricsFile string       `yaml:"metrics_file,omitempty"`
}

// Load reads the configuration at path. An empty path loads DefaultFile
// when it exists and falls back to defaults otherwise. Environment files
// are loaded first so ${VAR} references in the YAML can use them.
func Load(path string) (*Config, error) {
	LoadEnvFiles()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case !explicit && stdErrors.Is(err, fs.ErrNotExist):
		cfg := Default()
		return &cfg, nil
	case stdErrors.Is(err, fs.ErrNotExist):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	default:
		return nil, errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			ce.Context().Set("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration after expanding ${VAR} references, then
// normalizes, applies defaults and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := seed()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.ConfigError("failed to unmarshal config").
			WithCause(err).
			Build()
	}

	normalize(&cfg)
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file holding the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	cfg := Default()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	header := []byte("# doclinks configuration\n# Values may reference environment variables as ${VAR}.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
