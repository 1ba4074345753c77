package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DisabledPath turns off an optional file sink when used as its path.
const DisabledPath = "-"

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Data:    loadDataConfig(),
		Log:     logCfg,
		Metrics: metrics,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// DataConfig locates the startup data file and the read-path request log.
type DataConfig struct {
	PersonsFile    string
	RequestLogFile string
}

// RequestLogEnabled reports whether read requests should be logged to a file.
func (c DataConfig) RequestLogEnabled() bool {
	return c.RequestLogFile != "" && c.RequestLogFile != DisabledPath
}

func loadDataConfig() DataConfig {
	return DataConfig{
		PersonsFile:    getEnvOrDefault("PERSONS_DATA_FILE", "db.json"),
		RequestLogFile: getEnvOrDefault("REQUEST_LOG_FILE", "requests.log"),
	}
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level slog.Level
	JSON  bool
}

func loadLogConfig() (LogConfig, error) {
	var level slog.Level
	raw := getEnvOrDefault("LOG_LEVEL", "info")
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q: %w", raw, err)
	}

	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text"))
	switch format {
	case "text", "json":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value %q: want text or json", format)
	}

	return LogConfig{Level: level, JSON: format == "json"}, nil
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func loadMetricsConfig() (MetricsConfig, error) {
	enabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return MetricsConfig{}, err
	}
	return MetricsConfig{Enabled: enabled}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
