package webapp

import (
	"html/template"
	"net/http"

	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/session"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>SafeShare — {{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .User}}<p>Signed in as {{.User}} ({{.Role}})</p>{{end}}
</body>
</html>
`))

type pageData struct {
	Title string
	User  string
	Role  string
}

type pageHandler struct {
	logger logging.Logger
}

func (h *pageHandler) render(w http.ResponseWriter, r *http.Request, title string) {
	data := pageData{Title: title}

	// pages behind the guard always carry a valid cookie, but the auth
	// pages may not
	if ck, err := r.Cookie(common.AccessTokenKey); err == nil && ck.Value != "" {
		if claims, err := session.Decode(ck.Value); err == nil {
			data.User = claims.Subject
			data.Role = claims.Role
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.logger.Error(r.Context(), "rendering page", "title", title, "error", err)
	}
}

func (h *pageHandler) login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Log in")
}

func (h *pageHandler) register(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Register")
}

func (h *pageHandler) verifyMFA(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Verify code")
}

func (h *pageHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Dashboard")
}

func (h *pageHandler) admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Administration")
}

func (h *pageHandler) root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
