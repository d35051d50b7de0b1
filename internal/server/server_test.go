package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mlsweb/internal/contact"
	"mlsweb/internal/db"
	"mlsweb/internal/handlers"
	"mlsweb/models"
)

func TestNewAppliesSessionDefaults(t *testing.T) {
	database, err := gorm.Open(sqlite.Open("file:server-defaults?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	cfg := Config{Addr: ":8080", Session: SessionConfig{CookieSecure: true}, Database: database}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(handlers.Dependencies{})
	})

	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected server addr :8080, got %q", srv.httpServer.Addr)
	}
	if srv.Sessions().Lifetime != defaultSessionLifetime {
		t.Fatalf("expected default lifetime, got %s", srv.Sessions().Lifetime)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(url.Values{"return": {"/about"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after toggle, got %d", rr.Code)
	}
	session := findCookie(rr.Result().Cookies(), "mls_session")
	if session == nil {
		t.Fatal("expected default session cookie to be set")
	}
	if !session.Secure {
		t.Fatal("expected cookie secure flag to be true")
	}
	if visitor := findCookie(rr.Result().Cookies(), "mls_visitor"); visitor == nil || !visitor.Secure {
		t.Fatalf("expected a secure visitor cookie, got %+v", visitor)
	}

	var count int64
	if err := database.Model(&models.ThemePreference{}).Where("theme = ?", "light").Count(&count).Error; err != nil {
		t.Fatalf("count preferences: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected toggled preference to be stored, got %d rows", count)
	}
}

func TestServerHandler(t *testing.T) {
	forms := contact.NewRegistry(contact.SubmitterFunc(func(context.Context, contact.Draft) (contact.FieldErrors, error) {
		return nil, nil
	}), time.Second)
	srv, err := New(Config{Addr: ":9090", Forms: forms})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(handlers.Dependencies{})
	})

	handler := srv.Handler()
	for _, path := range []string{"/healthz", "/", "/about", "/contact"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected %s to return 200, got %d", path, rr.Code)
		}
	}
	if forms.Len() != 1 {
		t.Fatalf("expected the contact page to open a form, got %d", forms.Len())
	}
}

func TestThemeSurvivesServerRestart(t *testing.T) {
	database, err := gorm.Open(sqlite.Open("file:server-restart?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(handlers.Dependencies{})
	})

	first, err := New(Config{Addr: ":8080", Database: database})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(url.Values{}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	first.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after toggle, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()

	cases := map[string][]string{
		"all cookies":         {"mls_session", "mls_visitor", "mls-theme"},
		"visitor cookie only": {"mls_visitor"},
		"theme cookie only":   {"mls-theme"},
	}
	for name, keep := range cases {
		// A new server starts with an empty in-memory session store.
		restarted, err := New(Config{Addr: ":8080", Database: database})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookieName := range keep {
			if c := findCookie(cookies, cookieName); c != nil {
				req.AddCookie(c)
			}
		}
		rr := httptest.NewRecorder()
		restarted.Handler().ServeHTTP(rr, req)
		if !strings.Contains(rr.Body.String(), `class="light-mode"`) {
			t.Fatalf("%s: theme reverted to dark after restart", name)
		}
	}
}

func TestHealthCheckCreatesNoSession(t *testing.T) {
	srv, err := New(Config{Addr: ":8080"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(handlers.Dependencies{})
	})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if got := rr.Header().Values("Set-Cookie"); len(got) != 0 {
			t.Fatalf("expected no cookies from the health check, got %v", got)
		}
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
