// Package guard implements the route-protection middleware of the SafeShare
// web gateway. Every page request is classified against the credential
// cookie and either passed through or redirected with 303 See Other.
package guard

import (
	"net/http"
	"strings"
	"time"

	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/session"
)

const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	VerifyMFAPath = "/verify-mfa"
	DashboardPath = "/dashboard"
	AdminPrefix   = "/admin"
)

// Guard decides page access from the credential cookie.
//
// Rules:
//   - protected path without a valid credential → redirect to /login
//   - undecodable or expired credential → redirect to /login
//   - valid credential on /login or /register → redirect to /dashboard
//   - /admin without the admin role → redirect to /dashboard
//   - /verify-mfa is reachable without a full credential
type Guard struct {
	logger logging.Logger
	now    func() time.Time
}

func New(logger logging.Logger) *Guard {
	return &Guard{logger: logger, now: time.Now}
}

// claims returns the decoded, unexpired claims from the credential cookie,
// or nil when there is no usable credential.
func (g *Guard) claims(r *http.Request) *session.Claims {
	ck, err := r.Cookie(common.AccessTokenKey)
	if err != nil || ck.Value == "" {
		return nil
	}

	claims, err := session.Decode(ck.Value)
	if err != nil {
		g.logger.Warn(r.Context(), "undecodable credential cookie", "error", err)
		return nil
	}
	if claims.IsExpired(g.now()) {
		return nil
	}
	return claims
}

func isAuthPage(path string) bool {
	return path == LoginPath || path == RegisterPath
}

func isPublic(path string) bool {
	return isAuthPage(path) || path == VerifyMFAPath
}

// Middleware is a mux-compatible wrapper applying the guard rules.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := g.claims(r)
		path := r.URL.Path

		switch {
		case claims == nil && !isPublic(path):
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)

		case claims != nil && isAuthPage(path):
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)

		case claims != nil && strings.HasPrefix(path, AdminPrefix) && claims.Role != session.RoleAdmin:
			// non-admins land on the dashboard, no error page
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)

		default:
			next.ServeHTTP(w, r)
		}
	})
}
