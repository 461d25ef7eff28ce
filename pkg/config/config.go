package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the TikTok scraper.
type Config struct {
	// TikTok request settings
	TikTok TikTokConfig `yaml:"tiktok" json:"tiktok"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Discovery engine tuning
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TikTokConfig holds platform-specific request configuration. Cookie is
// an optional raw Cookie header value attached verbatim to requests;
// TikTok may geo-block or require cookies in some regions.
type TikTokConfig struct {
	Cookie       string        `yaml:"cookie" json:"cookie"`
	CookieFile   string        `yaml:"cookie_file" json:"cookie_file"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// RateLimitConfig holds rate limiting configuration for batch runs.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// DiscoveryConfig holds discovery engine policy knobs. The yield
// thresholds are heuristics, not correctness requirements.
type DiscoveryConfig struct {
	// MaxAttempts caps the number of search requests in one run.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
	// LowYieldThreshold is the new-URL count per page below which a
	// keyword is considered exhausted.
	LowYieldThreshold int `yaml:"low_yield_threshold" json:"low_yield_threshold"`
	// LowYieldPages is how many consecutive low-yield pages it takes to
	// advance to the next keyword.
	LowYieldPages int `yaml:"low_yield_pages" json:"low_yield_pages"`
}

// OutputConfig holds JSON output settings.
type OutputConfig struct {
	Pretty bool `yaml:"pretty" json:"pretty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TikTok: TikTokConfig{
			FetchTimeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			MaxRetries:        3,
			RetryDelay:        2 * time.Second,
		},
		Discovery: DiscoveryConfig{
			MaxAttempts:       50,
			LowYieldThreshold: 1,
			LowYieldPages:     2,
		},
		Output: OutputConfig{
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if cookie := os.Getenv("TTSCRAPER_COOKIE"); cookie != "" {
		c.TikTok.Cookie = cookie
	}
	if cookieFile := os.Getenv("TTSCRAPER_COOKIE_FILE"); cookieFile != "" {
		c.TikTok.CookieFile = cookieFile
	}
	if userAgent := os.Getenv("TTSCRAPER_USER_AGENT"); userAgent != "" {
		c.TikTok.UserAgent = userAgent
	}
	if rpm := os.Getenv("TTSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if logLevel := os.Getenv("TTSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".ttscraper.yaml",
		".ttscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".ttscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// ResolveCookie returns the effective cookie value, reading CookieFile
// when no inline cookie was given. The file holds the raw Cookie header
// on a single line.
func (c *Config) ResolveCookie() (string, error) {
	if c.TikTok.Cookie != "" {
		return c.TikTok.Cookie, nil
	}
	if c.TikTok.CookieFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.TikTok.CookieFile)
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.TikTok.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Discovery.MaxAttempts <= 0 {
		errs = append(errs, errors.New("discovery max attempts must be positive"))
	}
	if c.Discovery.LowYieldPages <= 0 {
		errs = append(errs, errors.New("low yield pages must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if cookie, ok := flags["cookie"].(string); ok && cookie != "" {
		c.TikTok.Cookie = cookie
	}
	if cookieFile, ok := flags["cookie-file"].(string); ok && cookieFile != "" {
		c.TikTok.CookieFile = cookieFile
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if pretty, ok := flags["pretty"].(bool); ok {
		c.Output.Pretty = pretty
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ttscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
