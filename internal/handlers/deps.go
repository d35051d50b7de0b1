package handlers

import (
	"context"
		"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mlsweb/internal/contact"
	"mlsweb/internal/db"
	applog "mlsweb/internal/log"
	"mlsweb/internal/theme"
)

const (
	visitorCookieName   = "mls_visitor"
	visitorCookieMaxAge = 400 * 24 * time.Hour
)

// Dependencies are the shared collaborators used by the HTTP handlers.
type Dependencies struct {
	Sessions *scs.SessionManager
	Database *gorm.DB
	Forms    *contact.Registry
	// CookieDomain and SecureCookies apply to the long-lived visitor and
	// theme cookies.
	CookieDomain  string
	SecureCookies bool
}

type submissionJournal interface {
	Record(ctx context.Context, visitorKey string, draft contact.Draft, outcome contact.Outcome) error
}

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	forms          *contact.Registry
	journal        submissionJournal
	cookieDomain   string
	secureCookies  bool
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(deps Dependencies) {
	sessionManager = deps.Sessions
	database = deps.Database
	forms = deps.Forms
	cookieDomain = deps.CookieDomain
	secureCookies = deps.SecureCookies
	journal = nil
	if database != nil {
		journal = db.SubmissionJournal{DB: database}
	}
}

// readVisitorID returns the identifier carried by the visitor cookie, or ""
// when the request has none.
func readVisitorID(r *http.Request) string {
	cookie, err := r.Cookie(visitorCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// ensureVisitorID returns the visitor's identifier, issuing a cookie on first
// use. The identifier lives in its own cookie so it outlasts the session and
// keys the visitor's durable records across restarts.
func ensureVisitorID(w http.ResponseWriter, r *http.Request) string {
	if id := readVisitorID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		Domain:   cookieDomain,
		MaxAge:   int(visitorCookieMaxAge / time.Second),
		Secure:   secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	r.AddCookie(&http.Cookie{Name: visitorCookieName, Value: id})
	applog.Debug(r.Context(), "issued visitor cookie")
	return id
}

// themeLayers reads the session first, then the theme cookie, then the
// database row. Writes go to the session and are mirrored to the others. A nil
// writer leaves the cookie layer read-only.
func themeLayers(w http.ResponseWriter, r *http.Request, visitor string) theme.Layered {
	layers := theme.Layered{
		theme.SessionStorage{Sessions: sessionManager},
		theme.CookieStorage{Request: r, Writer: w, Domain: cookieDomain, Secure: secureCookies},
	}
	if database != nil && visitor != "" {
		layers = append(layers, db.ThemePreferenceStorage{
			DB:         database,
			VisitorKey: db.VisitorKey(visitor),
		})
	}
	return layers
}

// themeStore builds the visitor's writable theme store.
func themeStore(w http.ResponseWriter, r *http.Request) (*theme.Store, error) {
	if sessionManager == nil {
		return theme.NewStore(r.Context(), nil)
	}
	visitor := readVisitorID(r)
	if database != nil {
		visitor = ensureVisitorID(w, r)
	}
	return theme.NewStore(r.Context(), themeLayers(w, r, visitor))
}

// currentTheme resolves the setting used to render a page without writing
// anything. Pages still render with the default when no store can be built.
func currentTheme(r *http.Request) theme.Setting {
	if sessionManager == nil {
		applog.Debug(r.Context(), "theme storage unavailable, rendering default")
		return theme.Default
	}
	store, err := theme.NewStore(r.Context(), themeLayers(nil, r, readVisitorID(r)))
	if err != nil {
		applog.Error(r.Context(), "failed to load theme", "error", err)
		return theme.Default
	}
	return store.Get()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Observe attaches the visitor and route to the request's log context and
// logs each completed request at debug level. It must run inside the session
// middleware.
func Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := applog.WithFields(r.Context(), "method", r.Method, "path", r.URL.Path)
		if id := readVisitorID(r); id != "" {
			ctx = applog.WithFields(ctx, "visitor", shortID(id))
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		applog.Debug(ctx, "request handled", "status", rec.status, "duration", time.Since(start).String())
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
