package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"mlsweb/internal/contact"
	"mlsweb/internal/handlers"
	applog "mlsweb/internal/log"
)

const (
	defaultSessionLifetime = 30 * 24 * time.Hour
	defaultCookieName      = "mls_session"
	defaultStaticDir       = "web/static"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr      string
	StaticDir string
	Session   SessionConfig
	Database  *gorm.DB
	Forms     *contact.Registry
}

// SessionConfig controls the visitor session cookie. The session carries the
// theme preference and the visitor identifier.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server serving the marketing site.
type Server struct {
	config     Config
	sessions   *scs.SessionManager
	httpServer *http.Server
}

// New builds a Server and installs the handler dependencies.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"sessionCookie", cfg.Session.CookieName,
	)

	sessionCfg := cfg.Session
	if sessionCfg.Lifetime <= 0 {
		sessionCfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(sessionCfg.CookieName) == "" {
		sessionCfg.CookieName = defaultCookieName
	}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		cfg.StaticDir = defaultStaticDir
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = sessionCfg.Lifetime
	sessionManager.Cookie.Name = sessionCfg.CookieName
	sessionManager.Cookie.Domain = sessionCfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = sessionCfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"cookieName", sessionCfg.CookieName,
		"cookieDomain", sessionCfg.CookieDomain,
		"cookieSecure", sessionCfg.CookieSecure,
	)

	handlers.Configure(handlers.Dependencies{
		Sessions:      sessionManager,
		Database:      cfg.Database,
		Forms:         cfg.Forms,
		CookieDomain:  sessionCfg.CookieDomain,
		SecureCookies: sessionCfg.CookieSecure,
	})

	handler := sessionManager.LoadAndSave(handlers.Observe(newRouter(cfg.StaticDir)))

	return &Server{
		config:   cfg,
		sessions: sessionManager,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler for integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the session manager backing visitor preferences.
func (s *Server) Sessions() *scs.SessionManager {
	return s.sessions
}
