package handlers

import "net/http"

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

func isBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// isFragment reports whether the request asks for a partial swap rather than
// a full document.
func isFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && !isBoosted(r)
}
