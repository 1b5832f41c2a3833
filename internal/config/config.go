package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/sessions"
)

const envPrefix = "COMPONENTS"

var ErrUnsupportedAPIVersion = errors.New("unsupported api version")

func DefaultConfig() *Config {

	v := viper.New()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/components")

	if home, err := os.UserHomeDir(); err == nil && len(home) > 0 {
		v.AddConfigPath(filepath.Join(home, ".config", "components"))
	}

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// bindEnvironmentVariables binds the keys viper cannot discover from
// defaults alone, plus a few shorter aliases.
func bindEnvironmentVariables(v *viper.Viper) {

	v.BindEnv("api.base_url", "COMPONENTS_API_BASE_URL", "API_BASE_URL")
	v.BindEnv("api.api_key", "COMPONENTS_API_API_KEY", "COMPONENTS_API_KEY")
	v.BindEnv("api.timeout", "COMPONENTS_API_TIMEOUT")
	v.BindEnv("api.version", "COMPONENTS_API_VERSION")

	v.BindEnv("session.secret", "COMPONENTS_SESSION_SECRET", "SESSION_SECRET")
	v.BindEnv("session.secure", "COMPONENTS_SESSION_SECURE")

	v.BindEnv("server.host", "COMPONENTS_SERVER_HOST")
	v.BindEnv("server.port", "COMPONENTS_SERVER_PORT", "PORT")

	v.BindEnv("logging.level", "COMPONENTS_LOGGING_LEVEL")
	v.BindEnv("logging.format", "COMPONENTS_LOGGING_FORMAT")
	v.BindEnv("logging.output", "COMPONENTS_LOGGING_OUTPUT")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Validate checks the settings that would otherwise only fail at first use.
// The backend base url is checked when a client is built, so commands that
// never talk to the backend still run without one.
func (c *Config) Validate() error {

	switch c.API.GetVersion() {
	case APIVersionV1, APIVersionV2:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAPIVersion, c.API.Version)
	}

	if len(c.API.BaseURL) > 0 && !common.IsValidURL(c.API.BaseURL) {
		return fmt.Errorf("invalid api.base_url: %q", c.API.BaseURL)
	}

	if _, err := c.API.GetTimeout(); err != nil {
		return err
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}

	return nil
}

// GetSessionSecret returns the cookie signing secret. Without a configured
// secret a random one is generated, so sessions do not survive a restart.
func (c *Config) GetSessionSecret() string {

	if len(c.Session.Secret) >= common.MinSecretLength {
		return c.Session.Secret
	}

	if len(c.Session.Secret) > 0 {
		logrus.WithFields(logrus.Fields{
			"length":  len(c.Session.Secret),
			"minimum": common.MinSecretLength,
		}).Warnln("Session secret is too short, generating a random secret")
	} else {
		logrus.Warnln("No session secret configured, generating a random secret")
	}

	secret, err := common.GenerateSecureRandomString(common.MinSecretLength * 2)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to generate session secret")
	}

	c.Session.Secret = secret
	return secret
}

// NewTokenStore returns the session token store for the configured key.
func (c *Config) NewTokenStore() sessions.TokenStore {
	return sessions.NewTokenStore(c.Session.Key)
}

func setDefaults(v *viper.Viper) {

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5225)

	v.SetDefault("server.limits.read_timeout", "30s")
	v.SetDefault("server.limits.write_timeout", "60s")
	v.SetDefault("server.limits.idle_timeout", "120s")
	v.SetDefault("server.limits.requests_per_minute", 600)
	v.SetDefault("server.limits.burst", 50)

	v.SetDefault("server.health.enabled", true)
	v.SetDefault("server.health.path", "/health")
	v.SetDefault("server.health.ready_path", "/health/ready")
	v.SetDefault("server.health.check_path", "/health")

	v.SetDefault("server.security.cors.allowed_origins", []string{"http://localhost:5225"})
	v.SetDefault("server.security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.security.cors.allow_credentials", true)
	v.SetDefault("server.security.cors.max_age", 86400)

	// Backend API defaults
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", api.DefaultTimeout.String())
	v.SetDefault("api.version", APIVersionV1)
	v.SetDefault("api.error_message_expr", api.DefaultErrorMessageExpr)
	v.SetDefault("api.api_key", "")

	// Session defaults
	v.SetDefault("session.key", sessions.DefaultSessionKey)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", "components_session")
	v.SetDefault("session.max_age", "168h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.csrf", false)

	// Search defaults
	v.SetDefault("search.concept_limit", 15)
	v.SetDefault("search.document_limit", 50)
	v.SetDefault("search.min_query_length", 2)
	v.SetDefault("search.concept_cache_size", 1024)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("logging.buffer_size", 200)
}
