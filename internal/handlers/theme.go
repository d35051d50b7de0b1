package handlers

import (
	"errors"
	"net/http"
	"strings"

	applog "mlsweb/internal/log"
	"mlsweb/internal/theme"
)

var returnPaths = map[string]bool{
	"/":        true,
	"/about":   true,
	"/contact": true,
}

// safeReturnPath keeps redirects on the site's own routes.
func safeReturnPath(value string) string {
	value = strings.TrimSpace(value)
	if returnPaths[value] {
		return value
	}
	return "/"
}

// ToggleTheme flips the visitor's display mode. A "theme" form value selects
// a mode explicitly instead. HTMX callers get a refresh instruction, other
// callers are redirected back to the page they came from.
func ToggleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		applog.Debug(r.Context(), "theme toggle with unsupported method", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse theme form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	store, err := themeStore(w, r)
	if err != nil {
		if errors.Is(err, theme.ErrNoStorage) {
			http.Error(w, "theme preferences not available", http.StatusServiceUnavailable)
			return
		}
		applog.Error(r.Context(), "failed to load theme store", "error", err)
		http.Error(w, "unable to load theme", http.StatusInternalServerError)
		return
	}

	cancel := store.Subscribe(func(s theme.Setting) {
		applog.Info(r.Context(), "theme changed", "theme", s)
		w.Header().Set("HX-Trigger", `{"themeChanged":"`+s.String()+`"}`)
	})
	defer cancel()

	if requested := strings.TrimSpace(r.PostFormValue("theme")); requested != "" {
		setting, ok := theme.Parse(requested)
		if !ok {
			http.Error(w, "invalid theme selection", http.StatusBadRequest)
			return
		}
		err = store.Set(r.Context(), setting)
	} else {
		_, err = store.Toggle(r.Context())
	}
	if err != nil {
		applog.Error(r.Context(), "failed to persist theme", "error", err)
		http.Error(w, "failed to save theme", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Theme", store.Get().String())
	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return")), http.StatusSeeOther)
}
