package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopupCompat(t *testing.T) {
	t.Parallel()

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		PopupCompat("/login", "/register", "/forgot-password"),
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("stamps allow-listed auth pages", func(t *testing.T) {
		for _, path := range []string{"/login", "/register", "/forgot-password"} {
			rec := get(path)
			require.Equal(t, COOPAllowPopups, rec.Header().Get(HeaderCOOP), path)
		}
	})

	t.Run("leaves other paths untouched", func(t *testing.T) {
		rec := get("/dashboard")
		require.Empty(t, rec.Header().Get(HeaderCOOP))
	})

	t.Run("matches exactly, not by prefix", func(t *testing.T) {
		rec := get("/login/extra")
		require.Empty(t, rec.Header().Get(HeaderCOOP))
	})
}
