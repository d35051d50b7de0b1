package theme

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	applog "mlsweb/internal/log"
)

// MemoryStorage keeps the setting in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	value string
	saves int
}

// NewMemoryStorage returns a MemoryStorage seeded with an initial raw value.
func NewMemoryStorage(initial string) *MemoryStorage {
	return &MemoryStorage{value: initial}
}

func (m *MemoryStorage) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryStorage) Save(_ context.Context, value Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = string(value)
	m.saves++
	return nil
}

// Saves reports how many writes the storage has accepted.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// SessionStorage persists the setting in the visitor's scs session. The
// request context must have passed through SessionManager.LoadAndSave.
type SessionStorage struct {
	Sessions *scs.SessionManager
}

func (s SessionStorage) Load(ctx context.Context) (string, error) {
	if s.Sessions == nil {
		return "", errors.New("theme: session manager not configured")
	}
	return s.Sessions.GetString(ctx, StorageKey), nil
}

func (s SessionStorage) Save(ctx context.Context, value Setting) error {
	if s.Sessions == nil {
		return errors.New("theme: session manager not configured")
	}
	s.Sessions.Put(ctx, StorageKey, string(value))
	return nil
}

// CookieMaxAge is the lifetime of the theme cookie. Browsers cap cookies at
// 400 days.
const CookieMaxAge = 400 * 24 * time.Hour

// CookieStorage keeps the setting in a long-lived browser cookie named
// StorageKey, so it survives both session expiry and server restarts. A nil
// Writer makes the storage read-only.
type CookieStorage struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Domain  string
	Secure  bool
}

func (c CookieStorage) Load(context.Context) (string, error) {
	if c.Request == nil {
		return "", nil
	}
	cookie, err := c.Request.Cookie(StorageKey)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (c CookieStorage) Save(_ context.Context, value Setting) error {
	if c.Writer == nil {
		return errors.New("theme: cookie storage is read-only")
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     StorageKey,
		Value:    string(value),
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(CookieMaxAge / time.Second),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Layered reads from the first layer holding a valid value and writes to
// every layer. The first layer is authoritative: a failed write there is
// returned, failed writes to later mirror layers are logged. Nil layers are skipped.
type Layered []Storage

func (l Layered) Load(ctx context.Context) (string, error) {
	var errs []error
	for _, layer := range l {
		if layer == nil {
			continue
		}
		raw, err := layer.Load(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := Parse(raw); ok {
			return raw, nil
		}
	}
	return "", errors.Join(errs...)
}

func (l Layered) Save(ctx context.Context, value Setting) error {
	primary := true
	for _, layer := range l {
		if layer == nil {
			continue
		}
		err := layer.Save(ctx, value)
		if primary {
			if err != nil {
				return err
			}
			primary = false
			continue
		}
		if err != nil {
			applog.Error(ctx, "failed to mirror theme setting", "error", err, "theme", value)
		}
	}
	return nil
}
