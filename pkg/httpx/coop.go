package httpx

import "net/http"

// HeaderCOOP is the Cross-Origin-Opener-Policy response header.
const HeaderCOOP = "Cross-Origin-Opener-Policy"

// COOPAllowPopups relaxes opener isolation so an identity-provider popup
// can message its opener window instead of being silently detached.
const COOPAllowPopups = "same-origin-allow-popups"

// PopupCompat stamps a relaxed opener policy onto a fixed allow-list of
// authentication pages. Matching is exact path equality only: nested paths
// under an allowed page keep full isolation.
func PopupCompat(paths ...string) Middleware {
	allowed := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		allowed[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[r.URL.Path]; ok {
				w.Header().Set(HeaderCOOP, COOPAllowPopups)
			}
			next.ServeHTTP(w, r)
		})
	}
}
