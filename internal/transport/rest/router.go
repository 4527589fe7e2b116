package rest

import (
	"log/slog"
	"net/http"

	"github.com/fluentdeck/fluentdeck-backend/internal/config"
	"github.com/fluentdeck/fluentdeck-backend/internal/transport/middleware"
)

// NewRouter assembles the HTTP routes with the standard middleware chain.
// Health probes skip the identity check; everything under /api requires a
// gateway-supplied user identity.
func NewRouter(log *slog.Logger, corsCfg config.CORSConfig, health *HealthHandler, studyH *StudyHandler) http.Handler {
	base := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.CORS(corsCfg),
		middleware.Logger(log),
	)
	authed := middleware.Chain(middleware.Identity)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/ingest", studyH.Ingest)
	api.HandleFunc("GET /api/queue", studyH.Queue)
	api.HandleFunc("POST /api/cards", studyH.CreateCard)
	api.HandleFunc("GET /api/cards/{id}", studyH.GetCard)
	api.HandleFunc("POST /api/cards/{id}/review", studyH.Review)
	api.HandleFunc("POST /api/cards/{id}/archive", studyH.Archive)
	api.HandleFunc("DELETE /api/cards/{id}/archive", studyH.Unarchive)
	api.HandleFunc("GET /api/cards/{id}/history", studyH.History)
	api.HandleFunc("GET /api/dashboard", studyH.Dashboard)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)
	mux.Handle("/api/", authed(api))

	return base(mux)
}
