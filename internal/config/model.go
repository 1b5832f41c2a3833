package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
)

const (
	APIVersionV1 = "v1"
	APIVersionV2 = "v2"
)

// Config represents the application configuration structure
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Search  SearchConfig  `mapstructure:"search"`

	logBuffer *LogBuffer
}

// GetLogBuffer returns the recent log entries captured since Load.
func (c *Config) GetLogBuffer() *LogBuffer {
	return c.logBuffer
}

type ServerConfig struct {
	Host     string             `mapstructure:"host"`
	Port     int                `mapstructure:"port"`
	Limits   ServerLimitsConfig `mapstructure:"limits"`
	Health   HealthConfig       `mapstructure:"health"`
	Security SecurityConfig     `mapstructure:"security"`
}

func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type ServerLimitsConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
}

type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Don't use /healthz as it conflicts with google k8s health checks
	Path string `mapstructure:"path"`
	// ReadyPath is answered with the backend readiness check
	ReadyPath string `mapstructure:"ready_path"`
	// CheckPath is requested on the backend by the readiness check
	CheckPath string `mapstructure:"check_path"`
}

type SecurityConfig struct {
	CORS models.CORSConfig `mapstructure:"cors"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is stdout, stderr or a file path rotated with lumberjack
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	// BufferSize is how many warnings and errors the logs endpoint keeps
	BufferSize int `mapstructure:"buffer_size"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout accepts Go ("30s") or ISO 8601 ("PT30S") durations
	Timeout          string            `mapstructure:"timeout"`
	Version          string            `mapstructure:"version"`
	Headers          map[string]string `mapstructure:"headers"`
	ErrorMessageExpr string            `mapstructure:"error_message_expr"`
	APIKey           string            `mapstructure:"api_key"`
	UserAgent        string            `mapstructure:"user_agent"`
}

func (api *APIConfig) GetVersion() string {
	if len(api.Version) > 0 {
		return strings.ToLower(api.Version)
	}
	return APIVersionV1
}

func (api *APIConfig) GetTimeout() (time.Duration, error) {
	timeout, err := common.ParseDuration(api.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.timeout: %w", err)
	}
	return timeout, nil
}

type SessionConfig struct {
	// Key is the session entry holding the search tokens
	Key        string        `mapstructure:"key"`
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
	// CSRF requires an X-CSRF-Token header on token mutations
	CSRF bool `mapstructure:"csrf"`
}

type SearchConfig struct {
	ConceptLimit   int `mapstructure:"concept_limit"`
	DocumentLimit  int `mapstructure:"document_limit"`
	MinQueryLength int `mapstructure:"min_query_length"`
	// ConceptCacheSize bounds the concept lookup cache, 0 disables it.
	ConceptCacheSize int `mapstructure:"concept_cache_size"`
}
