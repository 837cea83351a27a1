package http

import (
	"html/template"
	"net/http"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/pkg/httpx"
	"github.com/homeeasy/portal/pkg/slogx"
)

var authPageTmpl = template.Must(template.New("auth").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} · Home Easy</title></head>
<body data-page="{{.Page}}">
<main id="auth-root" data-endpoint="{{.Endpoint}}"></main>
</body>
</html>
`))

var shellPageTmpl = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Home Easy</title></head>
<body data-role="{{.Role}}" data-path="{{.Path}}">
<nav id="sidebar">
{{range .Nav.Primary}}<a href="{{.Path}}"{{if .Active}} class="active"{{end}} data-icon="{{.Icon.Meta.Name}}">{{.Label}}</a>
{{end}}<hr>
{{range .Nav.Utility}}<a href="{{.Path}}"{{if .Active}} class="active"{{end}} data-icon="{{.Icon.Meta.Name}}">{{.Label}}{{if .Badge}} <span class="badge">{{.Badge}}</span>{{end}}</a>
{{end}}</nav>
<main id="app-root"></main>
</body>
</html>
`))

type authPageData struct {
	Title    string
	Page     string
	Endpoint string
}

// AuthPageHandler serves one of the public authentication pages. These
// are the pages the popup-compatibility gate relaxes.
func AuthPageHandler(title, page string) http.HandlerFunc {
	data := authPageData{Title: title, Page: page, Endpoint: "/v1/auth/login"}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := authPageTmpl.Execute(w, data); err != nil {
			slogx.FromContext(r.Context()).Error("failed to render auth page", "error", err)
		}
	}
}

// ShellPageHandler serves the signed-in portal shell: the sidebar for the
// caller's role with the current route highlighted and the notification
// badge filled in. It always runs behind Guard.Page.
type ShellPageHandler struct {
	Shells *service.ShellManager
}

func (h *ShellPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	sh, ok := h.Shells.Get(sess.ID)
	if !ok {
		// The guard mounts the shell before the handler runs.
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "shell not mounted")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := shellPageTmpl.Execute(w, struct {
		Role string
		Path string
		Nav  domain.NavView
	}{
		Role: string(sess.User.Role),
		Path: r.URL.Path,
		Nav:  service.BuildNav(sess.User.Role, r.URL.Path, sh.Unread()),
	})
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to render shell page", "error", err)
	}
}
