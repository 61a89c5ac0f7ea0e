package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/admingate/internal/auth"
	"github.com/2beens/admingate/internal/session"
	"github.com/2beens/admingate/internal/telemetry/tracing"
	"github.com/2beens/admingate/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const loginPagePath = "/login"

type sessionVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddlewareHandler is the per-request gate: it classifies the path,
// verifies the session cookie for protected paths, and either forwards,
// redirects to the login page, or rejects with 401. Those are the only three
// outcomes - verification errors are never surfaced as anything else.
type AuthMiddlewareHandler struct {
	tokenCodec             sessionVerifier
	publicPaths            map[string]bool
	publicPathsPrefixes    []string
	protectedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(tokenCodec sessionVerifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		tokenCodec: tokenCodec,
		publicPaths: map[string]bool{
			"/":                true,
			"/version":         true,
			loginPagePath:      true,
			"/api/auth/login":  true,
			"/api/auth/logout": true,
		},
		publicPathsPrefixes: []string{
			"/static/",
		},
		// paths not listed here nor in publicPaths pass through
		// unauthenticated - new protected routes must be added here
		protectedPathsPrefixes: []string{
			"/dashboard",
			"/api/apps",
			"/api/generate-link",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsPublic(path string) bool {
	if h.publicPaths[path] {
		return true
	}
	for _, prefix := range h.publicPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) pathIsProtected(path string) bool {
	for _, prefix := range h.protectedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsPublic(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if !h.pathIsProtected(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				log.Tracef("[missing session cookie] [auth middleware] unauthorized => %s", r.URL.Path)
				h.reject(w, r, false)
				span.SetStatus(codes.Error, "missing-session-cookie")
				return
			}

			claims, err := h.tokenCodec.Verify(cookie.Value)
			if err != nil || !claims.IsAdmin {
				// expired, tampered, non-admin, or any internal verification
				// failure - all the same from the outside
				reqIp, _ := pkg.ReadUserIP(r)
				log.Tracef("[invalid session token] [auth middleware] unauthorized => %s [from %s]", r.URL.Path, reqIp)
				h.reject(w, r, true)
				span.SetStatus(codes.Error, "invalid-session-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}

func (h *AuthMiddlewareHandler) reject(w http.ResponseWriter, r *http.Request, clearCookie bool) {
	if clearCookie {
		http.SetCookie(w, session.ExpiredCookie())
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	redirectURL := loginPagePath + "?from=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}
