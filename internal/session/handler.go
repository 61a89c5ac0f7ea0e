package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/admingate/internal/auth"
	"github.com/2beens/admingate/internal/telemetry/metrics"
	"github.com/2beens/admingate/internal/telemetry/tracing"
	"github.com/2beens/admingate/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// CookieName is the session cookie carrying the signed admin token.
const CookieName = "auth-token"

const cookieMaxAge = int(auth.SessionTTL / time.Second)

type Handler struct {
	verifier       *auth.Verifier
	tokenCodec     *auth.TokenCodec
	secureCookies  bool
	metricsManager *metrics.Manager
}

func NewHandler(
	verifier *auth.Verifier,
	tokenCodec *auth.TokenCodec,
	secureCookies bool,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		verifier:       verifier,
		tokenCodec:     tokenCodec,
		secureCookies:  secureCookies,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	authSubrouter := mainRouter.PathPrefix("/api/auth").Subrouter()
	authSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	authSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("POST", "OPTIONS").Name("logout")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "session.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "login and password required", http.StatusBadRequest)
		return
	}

	if loginReq.Login == "" || loginReq.Password == "" {
		pkg.WriteJSONError(w, "login and password required", http.StatusBadRequest)
		return
	}

	if !handler.verifier.IsConfigured() {
		log.Error("login failed: admin identity not configured")
		span.SetStatus(codes.Error, "admin-not-configured")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !handler.verifier.Verify(loginReq.Login, loginReq.Password) {
		log.Tracef("failed login attempt for user: %s", loginReq.Login)
		handler.metricsManager.CounterFailedLogins.Inc()
		span.SetStatus(codes.Error, "wrong-credentials")
		pkg.WriteJSONError(w, "wrong credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.tokenCodec.Issue()
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			log.Error("login failed: signing secret not configured")
		} else {
			log.Errorf("login failed, issue token: %s", err)
		}
		span.SetStatus(codes.Error, "issue-token-failed")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, handler.sessionCookie(token, cookieMaxAge))

	log.Trace("new login success")
	handler.metricsManager.CounterLogins.Inc()
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "session.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// the token is self-contained, there is nothing to revoke server-side;
	// logout means instructing the client to drop the cookie
	http.SetCookie(w, handler.sessionCookie("", -1))

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

func (handler *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie instructs the client to drop a stale session cookie.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
