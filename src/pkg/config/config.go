package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger = log.WithField("package", "config")

var (
	// ErrConfigNotFound is returned by Load when the config file does not exist
	ErrConfigNotFound = errors.New("config file not found")
)

// Config is the optional API tuning file
type Config struct {
	API  APIConfig  `yaml:"api"`
	Jobs JobsConfig `yaml:"jobs"`
}

// APIConfig tunes the HTTP client
type APIConfig struct {
	BaseURL        string   `yaml:"baseUrl"`
	RequestTimeout Duration `yaml:"requestTimeout"`
	RateLimit      float64  `yaml:"rateLimit"`
	RateBurst      int      `yaml:"rateBurst"`
}

// JobsConfig tunes job polling
type JobsConfig struct {
	Timeout      Duration `yaml:"timeout"`
	PollInterval Duration `yaml:"pollInterval"`
}

// Duration is a time.Duration written as "30s", "6m" in YAML
type Duration time.Duration

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %q must not be negative", s)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        hava.DefaultBaseURL,
			RequestTimeout: Duration(hava.DefaultRequestTimeout),
			RateLimit:      hava.DefaultRateLimit,
			RateBurst:      hava.DefaultRateBurst,
		},
		Jobs: JobsConfig{
			Timeout:      Duration(hava.DefaultJobTimeout),
			PollInterval: Duration(hava.DefaultPollInterval),
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	logger.WithField("path", path).Debug("Loaded config file")
	return cfg, nil
}

// ClientConfig builds the Hava client configuration for token
func (c *Config) ClientConfig(token string) hava.ClientConfig {
	return hava.ClientConfig{
		BaseURL:        c.API.BaseURL,
		Token:          token,
		RequestTimeout: time.Duration(c.API.RequestTimeout),
		JobTimeout:     time.Duration(c.Jobs.Timeout),
		PollInterval:   time.Duration(c.Jobs.PollInterval),
		RateLimit:      c.API.RateLimit,
		RateBurst:      c.API.RateBurst,
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding ones already set
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	logger.WithField("path", path).Info("Loaded env file")
	return nil
}
