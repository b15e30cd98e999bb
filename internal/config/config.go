package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the price extraction service settings.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	OCRLanguage    string
	TessdataPrefix string

	AzureAccountName string
	AzureAccountKey  string

	// AllowedImageHosts restricts image_url hosts. Entries may start with
	// "*." to match any subdomain. Empty allows every host.
	AllowedImageHosts []string

	Log LogConfig
}

// LogConfig is shared by both binaries.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// DashboardConfig holds the static asset server settings.
type DashboardConfig struct {
	Port    int
	RootDir string
	Log     LogConfig
}

const DefaultDashboardPort = 3000

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob-hosted images can be fetched.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "5000"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB
		OCRLanguage:        getEnvOrDefault("OCR_LANGUAGE", "eng"),
		TessdataPrefix:     os.Getenv("TESSDATA_PREFIX"),
		AzureAccountName:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:    os.Getenv("AZURE_STORAGE_KEY"),
		AllowedImageHosts:  parseListOrEmpty("IMAGE_URL_ALLOWED_HOSTS"),
		Log:                loadLogConfig(),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout)
	}
	if strings.TrimSpace(cfg.OCRLanguage) == "" {
		return nil, fmt.Errorf("OCR_LANGUAGE must not be blank")
	}
	return cfg, nil
}

// LoadDashboard builds the static server settings. args are the positional
// command line arguments; the first one, when present, is the port. A port
// that is not an integer is reported through warn and replaced by the default.
//
// RootDir defaults to the directory holding the executable. Under "go run" the
// binary lives in a temporary build directory, so DASHBOARD_ROOT must be set.
func LoadDashboard(args []string, warn func(string)) *DashboardConfig {
	cfg := &DashboardConfig{
		Port:    DefaultDashboardPort,
		RootDir: getEnvOrDefault("DASHBOARD_ROOT", executableDir()),
		Log:     loadLogConfig(),
	}

	if len(args) > 0 {
		port, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			if warn != nil {
				warn(fmt.Sprintf("Invalid port number %q. Using default port %d", args[0], DefaultDashboardPort))
			}
		} else {
			cfg.Port = port
		}
	}
	return cfg
}

// Address is the listen address for the dashboard, all interfaces.
func (c *DashboardConfig) Address() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
		File:   os.Getenv("LOG_FILE"),
	}
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseListOrEmpty(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
