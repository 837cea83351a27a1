package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body of the shape {"error": "...",
// "error_description": "..."}.
func WriteError(w http.ResponseWriter, code int, kind, desc string) {
	WriteJSON(w, code, map[string]string{
		"error":             kind,
		"error_description": desc,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is required for session-bearing and redirect responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// RedirectReplace issues a 303 redirect that must not be cached. Paired
// with the no-store header the browser treats it like a history *replace*:
// the guarded page never becomes a back-navigation target.
func RedirectReplace(w http.ResponseWriter, r *http.Request, target string) {
	NoCache(w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
