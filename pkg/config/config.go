package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SHUTTER_"

// Config holds all configuration options for shutter
type Config struct {
	// Upstream site settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds settings for talking to the profile site
type InstagramConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// ConcurrentDownloads bounds the worker pool; 0 means one worker per CPU
	ConcurrentDownloads int  `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	SaveMetadata        bool `yaml:"save_metadata" json:"save_metadata"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	CreateUserFolders bool   `yaml:"create_user_folders" json:"create_user_folders"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			BaseURL: "https://www.instagram.com",
			Timeout: 30 * time.Second,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 0,
			SaveMetadata:        false,
		},
		Output: OutputConfig{
			BaseDirectory:     ".",
			CreateUserFolders: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Workers returns the effective worker pool size
func (d DownloadConfig) Workers() int {
	if d.ConcurrentDownloads > 0 {
		return d.ConcurrentDownloads
	}
	return runtime.NumCPU()
}

// UserDirectory returns the directory images for username are saved into
func (o OutputConfig) UserDirectory(username string) string {
	if o.CreateUserFolders {
		return filepath.Join(o.BaseDirectory, username+"_images")
	}
	return o.BaseDirectory
}

// LoadFromEnv loads configuration from SHUTTER_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if baseURL := os.Getenv(envPrefix + "BASE_URL"); baseURL != "" {
		c.Instagram.BaseURL = baseURL
	}
	if userAgent := os.Getenv(envPrefix + "USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}
	if timeout := os.Getenv(envPrefix + "TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.Instagram.Timeout = d
		}
	}

	if concurrent := os.Getenv(envPrefix + "CONCURRENT_DOWNLOADS"); concurrent != "" {
		n, err := strconv.Atoi(concurrent)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENT_DOWNLOADS: %w", envPrefix, err))
		} else {
			c.Download.ConcurrentDownloads = n
		}
	}
	if saveMetadata := os.Getenv(envPrefix + "SAVE_METADATA"); saveMetadata != "" {
		c.Download.SaveMetadata = strings.ToLower(saveMetadata) == "true"
	}

	if outputDir := os.Getenv(envPrefix + "OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file. An empty path
// searches the default locations; finding nothing there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
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

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".shutter.yaml",
		".shutter.yml",
		filepath.Join(home, ".config", "shutter", "config.yaml"),
		filepath.Join(home, ".config", "shutter", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Instagram.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base URL %q", c.Instagram.BaseURL))
	}
	if c.Instagram.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}

	if c.Download.ConcurrentDownloads < 0 {
		errs = append(errs, errors.New("concurrent downloads cannot be negative"))
	}
	if c.Download.ConcurrentDownloads > 64 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 64"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
		c.Output.CreateUserFolders = false
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent >= 0 {
		c.Download.ConcurrentDownloads = concurrent
	}
	if metadata, ok := flags["metadata"].(bool); ok {
		c.Download.SaveMetadata = metadata
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Instagram.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence:
// command line flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".shutter.env"))

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
