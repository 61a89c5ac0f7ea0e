package apps

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/admingate/internal/telemetry/tracing"
	"github.com/2beens/admingate/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// Handler serves the app listing API. The route is protected by the auth
// middleware, so only a logged-in admin ever reaches it.
type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.
		HandleFunc("/api/apps", handler.handleList).
		Methods("GET", "OPTIONS").Name("list-apps")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "apps.list")
	defer span.End()

	if handler.registry == nil {
		log.Error("list apps failed: apps registry not configured")
		span.SetStatus(codes.Error, "registry-not-configured")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	appsResp := struct {
		Apps []App `json:"apps"`
	}{
		Apps: handler.registry.List(),
	}

	respBytes, err := json.Marshal(appsResp)
	if err != nil {
		log.Errorf("marshal apps list: %s", err)
		span.SetStatus(codes.Error, "marshal-failed")
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
