package server

import (
	"context"
	"net/http"

	"mlsweb/internal/handlers"
	applog "mlsweb/internal/log"
)

func newRouter(staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/theme/toggle", handlers.ToggleTheme)
	mux.HandleFunc("/contact", handlers.Contact)
	mux.HandleFunc("/contact/form", handlers.ContactForm)
	mux.HandleFunc("/about", handlers.About)
	mux.HandleFunc("/", handlers.Services)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(staticDir))))
	applog.Debug(context.Background(), "http routes registered", "static", staticDir)
	return mux
}
