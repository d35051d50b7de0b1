package handlers

import (
	"net/http"

	"github.com/a-h/templ"

	applog "mlsweb/internal/log"
	"mlsweb/internal/views/layout"
	"mlsweb/internal/views/pages"
	themeview "mlsweb/internal/views/theme"
)

// Services renders the home page. Unknown paths under / are not found.
func Services(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderSitePage(w, r, layout.PageData{
		Title:       "Services",
		Description: "Professional sound, lighting, and DJ services for every event.",
		Path:        "/",
	}, pages.Services)
}

// About renders the about page.
func About(w http.ResponseWriter, r *http.Request) {
	renderSitePage(w, r, layout.PageData{
		Title:       "About Us",
		Description: "Ten years of world-class event production.",
		Path:        "/about",
	}, pages.About)
}

// renderSitePage renders a static page. Leaving the contact page discards the
// visitor's draft and cancels its pending reset.
func renderSitePage(w http.ResponseWriter, r *http.Request, page layout.PageData, content func(themeview.Palette) templ.Component) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	releaseContactForm(r)

	page.Palette = themeview.Resolve(currentTheme(r))
	applog.Debug(r.Context(), "rendering page", "page", page.Path, "theme", page.Palette.Setting, "boosted", isBoosted(r))
	writePage(w, r, layout.Layout(page, content(page.Palette)))
}

func writePage(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if isBoosted(r) {
		w.Header().Set("HX-Reswap", "innerHTML show:window:top")
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func releaseContactForm(r *http.Request) {
	if forms == nil {
		return
	}
	id := readVisitorID(r)
	if id == "" {
		return
	}
	if forms.Release(id) {
		applog.Debug(r.Context(), "discarded contact draft on navigation")
	}
}
