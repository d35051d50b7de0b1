package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// DefaultContactEndpoint is the form-processing endpoint used when none is configured.
	DefaultContactEndpoint = "https://formspree.io/f/mwvnejgy"
	// DefaultContactResetDelay is how long a successful submission stays visible.
	DefaultContactResetDelay = 3 * time.Second
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Session  SessionConfig
	Contact  ContactConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr      string `validate:"required"`
	StaticDir string `validate:"required"`
}

// DatabaseConfig contains the database connection settings. An empty URL
// without UseMock runs the site on session storage alone.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int `validate:"gte=0"`
	MaxOpenConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string `validate:"omitempty,oneof=debug info warn warning error"`
}

// SessionConfig controls the visitor session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// ContactConfig describes the external form endpoint and the form lifecycle timings.
type ContactConfig struct {
	Endpoint   string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	ResetDelay time.Duration `validate:"gt=0"`
	IdleTTL    time.Duration `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load inspects the environment (and an optional .env file) and builds a Config value.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
		StaticDir: firstNonEmpty(os.Getenv("STATIC_DIR"), "web/static"),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	cfg.Session = SessionConfig{
		Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 30*24*time.Hour),
		CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "mls_session"),
		CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
		CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
	}

	cfg.Contact = ContactConfig{
		Endpoint:   firstNonEmpty(os.Getenv("CONTACT_ENDPOINT"), DefaultContactEndpoint),
		Timeout:    parseDurationWithDefault(os.Getenv("CONTACT_TIMEOUT"), 15*time.Second),
		ResetDelay: parseDurationWithDefault(os.Getenv("CONTACT_RESET_DELAY"), DefaultContactResetDelay),
		IdleTTL:    parseDurationWithDefault(os.Getenv("CONTACT_IDLE_TTL"), 30*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the struct constraints of the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed validation for tag '%s'", strings.ToLower(fe.StructNamespace()), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}
