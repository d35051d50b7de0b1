package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServicesRendersWithoutDependencies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	Services(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), `data-theme="dark"`) {
		t.Fatalf("expected default dark theme: %s", w.Body.String())
	}
}

func TestServicesRejectsUnknownPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	w := httptest.NewRecorder()
	Services(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", w.Code)
	}
}

func TestAboutRejectsPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/about", nil)
	w := httptest.NewRecorder()
	About(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestBoostedNavigationScrollsToTop(t *testing.T) {
	env := newTestEnv(t, false)

	rr := env.get("/about", "HX-Request", "true", "HX-Boosted", "true")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("HX-Reswap"); got != "innerHTML show:window:top" {
		t.Fatalf("expected scroll-to-top reswap, got %q", got)
	}
	if !strings.Contains(rr.Body.String(), `aria-current="page"`) {
		t.Fatalf("expected active navigation link: %s", rr.Body.String())
	}
}
