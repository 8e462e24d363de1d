package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Backend      BackendConfig
	CORS         CORSConfig
	Log          LogConfig
	Notification NotificationConfig
	Form         FormConfig
	Metrics      MetricsConfig
	Docs         DocsConfig
}

// BackendConfig points the console at the remote user store.
type BackendConfig struct {
	BaseURL string
	// Timeout of zero leaves the transport defaults in place.
	Timeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// NotificationConfig tunes the toast shown for unexpected failures.
type NotificationConfig struct {
	Duration time.Duration
	Action   string
}

// FormConfig holds the length limits of the user form rules.
type FormConfig struct {
	MinUsernameLength int
	MinNameLength     int
	MaxInputLength    int
}

type MetricsConfig struct {
	Enabled bool
}

type DocsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_API_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 0),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notification = NotificationConfig{
		Duration: parseDuration(v.GetString("NOTIFICATION_DURATION"), 5*time.Second),
		Action:   v.GetString("NOTIFICATION_ACTION"),
	}

	cfg.Form = FormConfig{
		MinUsernameLength: positiveOr(v.GetInt("FORM_MIN_USERNAME_LENGTH"), 3),
		MinNameLength:     positiveOr(v.GetInt("FORM_MIN_NAME_LENGTH"), 1),
		MaxInputLength:    positiveOr(v.GetInt("FORM_MAX_INPUT_LENGTH"), 15),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	docs := cfg.Env != EnvProduction
	if v.IsSet("ENABLE_DOCS") {
		docs = v.GetBool("ENABLE_DOCS")
	}
	cfg.Docs = DocsConfig{Enabled: docs}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 4200)

	v.SetDefault("BACKEND_API_URL", "http://localhost:8080")
	v.SetDefault("BACKEND_TIMEOUT", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("NOTIFICATION_DURATION", "5s")
	v.SetDefault("NOTIFICATION_ACTION", "Acknowledge")

	v.SetDefault("FORM_MIN_USERNAME_LENGTH", 3)
	v.SetDefault("FORM_MIN_NAME_LENGTH", 1)
	v.SetDefault("FORM_MAX_INPUT_LENGTH", 15)

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
