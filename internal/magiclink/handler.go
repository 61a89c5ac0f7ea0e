package magiclink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/admingate/internal/apps"
	"github.com/2beens/admingate/internal/telemetry/metrics"
	"github.com/2beens/admingate/internal/telemetry/tracing"
	"github.com/2beens/admingate/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type linkStore interface {
	Put(ctx context.Context, token, appID string) error
}

var _ linkStore = (*Store)(nil)

// Handler serves the magic link generation API. The route is protected by
// the auth middleware.
type Handler struct {
	store          linkStore
	registry       *apps.Registry
	metricsManager *metrics.Manager
	// ability to inject token generator func (for unit testing)
	NewTokenFunc func() string
}

func NewHandler(
	store linkStore,
	registry *apps.Registry,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		store:          store,
		registry:       registry,
		metricsManager: metricsManager,
		NewTokenFunc:   uuid.NewString,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.
		HandleFunc("/api/generate-link", handler.handleGenerate).
		Methods("POST", "OPTIONS").Name("generate-link")
}

func (handler *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "magiclink.generate")
	defer span.End()

	if handler.registry == nil {
		log.Error("generate link failed: apps registry not configured")
		span.SetStatus(codes.Error, "registry-not-configured")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type generateRequest struct {
		AppID string `json:"appId"`
	}

	var generateReq generateRequest
	if err := json.NewDecoder(r.Body).Decode(&generateReq); err != nil {
		pkg.WriteJSONError(w, "appId required", http.StatusBadRequest)
		return
	}
	if generateReq.AppID == "" {
		pkg.WriteJSONError(w, "appId required", http.StatusBadRequest)
		return
	}

	baseURL, ok := handler.registry.BaseURL(generateReq.AppID)
	if !ok {
		span.SetStatus(codes.Error, "app-not-found")
		pkg.WriteJSONError(w, "app not found", http.StatusNotFound)
		return
	}

	token := handler.NewTokenFunc()
	if err := handler.store.Put(ctx, token, generateReq.AppID); err != nil {
		// link generation failed, the client must not get a working-looking link
		log.Errorf("store magic link token for app %s: %s", generateReq.AppID, err)
		span.SetStatus(codes.Error, "store-token-failed")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := struct {
		Success   bool   `json:"success"`
		URL       string `json:"url"`
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}{
		Success:   true,
		URL:       fmt.Sprintf("%s/auth/magic-link?token=%s", baseURL, token),
		Token:     token,
		ExpiresIn: int(TokenTTL.Seconds()),
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal generate link response: %s", err)
		span.SetStatus(codes.Error, "marshal-failed")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("magic link generated for app: %s", generateReq.AppID)
	handler.metricsManager.CounterLinksGenerated.Inc()
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
