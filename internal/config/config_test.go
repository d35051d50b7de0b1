package config

import (
	"strings"
	"testing"
	"time"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "   "}, ""},
		{"first non empty", []string{"foo", "bar"}, "foo"},
		{"skips whitespace", []string{"   ", "bar"}, "bar"},
		{"trims result", []string{" :9000 "}, ":9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Fatalf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestParseDurationWithDefault(t *testing.T) {
	t.Parallel()

	def := 3 * time.Second
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"blank returns default", "", def},
		{"invalid returns default", "soon", def},
		{"valid parses", "1500ms", 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseDurationWithDefault(tt.value, def); got != tt.want {
				t.Fatalf("parseDurationWithDefault(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseIntAndBoolWithDefault(t *testing.T) {
	t.Parallel()

	if got := parseIntWithDefault("abc", 3); got != 3 {
		t.Fatalf("parseIntWithDefault invalid = %d, want 3", got)
	}
	if got := parseIntWithDefault("42", 0); got != 42 {
		t.Fatalf("parseIntWithDefault valid = %d, want 42", got)
	}
	if got := parseBoolWithDefault("nope", true); !got {
		t.Fatal("parseBoolWithDefault invalid should return default")
	}
	if got := parseBoolWithDefault("false", true); got {
		t.Fatal("parseBoolWithDefault should parse false")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "ADDR", "STATIC_DIR",
		"DATABASE_URL", "DB_URL", "DATABASE_USE_MOCK",
		"LOG_LEVEL",
		"SESSION_LIFETIME", "SESSION_COOKIE_NAME", "SESSION_COOKIE_DOMAIN", "SESSION_COOKIE_SECURE",
		"CONTACT_ENDPOINT", "CONTACT_TIMEOUT", "CONTACT_RESET_DELAY", "CONTACT_IDLE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.StaticDir != "web/static" {
		t.Fatalf("Server.StaticDir = %q", cfg.Server.StaticDir)
	}
	if cfg.Contact.Endpoint != DefaultContactEndpoint {
		t.Fatalf("Contact.Endpoint = %q", cfg.Contact.Endpoint)
	}
	if cfg.Contact.ResetDelay != 3*time.Second {
		t.Fatalf("Contact.ResetDelay = %s, want 3s", cfg.Contact.ResetDelay)
	}
	if cfg.Session.CookieName != "mls_session" {
		t.Fatalf("Session.CookieName = %q", cfg.Session.CookieName)
	}
	if !cfg.Session.CookieSecure {
		t.Fatal("Session.CookieSecure should default to true")
	}
	if cfg.Database.URL != "" || cfg.Database.UseMock {
		t.Fatalf("expected no database by default, got %+v", cfg.Database)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", "127.0.0.1:9000")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "20")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_LIFETIME", "48h")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("CONTACT_ENDPOINT", "https://forms.example.com/f/abc")
	t.Setenv("CONTACT_RESET_DELAY", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.URL != "postgres://example" || cfg.Database.MaxOpenConns != 20 {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Session.Lifetime != 48*time.Hour || cfg.Session.CookieSecure {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Contact.Endpoint != "https://forms.example.com/f/abc" || cfg.Contact.ResetDelay != 5*time.Second {
		t.Fatalf("unexpected contact config %+v", cfg.Contact)
	}
}

func TestLoadRejectsInvalidEndpoint(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTACT_ENDPOINT", "not a url")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for invalid endpoint")
	}
	if !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected error to name the endpoint field, got %v", err)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "chatty")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}
