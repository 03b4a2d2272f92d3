package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cabinet-ia/patrimoine/backend/internal/handler/advice"
	dossierHandler "github.com/cabinet-ia/patrimoine/backend/internal/handler/dossier"
	profileHandler "github.com/cabinet-ia/patrimoine/backend/internal/handler/profile"
	sessionHandler "github.com/cabinet-ia/patrimoine/backend/internal/handler/session"
	middlewarePkg "github.com/cabinet-ia/patrimoine/backend/internal/middleware"
	profileModel "github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	sessionService "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/turn"
)

// Config bundles everything the router needs.
type Config struct {
	Profiles       profileModel.Store
	Sessions       *sessionService.Service
	Orchestrator   *turn.Orchestrator
	MaxUploadBytes int64
}

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	profiles := profileHandler.New(cfg.Profiles)
	sessions := sessionHandler.New(cfg.Sessions)
	dossiers := dossierHandler.New(cfg.Sessions)
	advices := advice.New(cfg.Sessions, cfg.Orchestrator, cfg.Profiles, cfg.MaxUploadBytes)
	ws := advice.NewWebSocketHandler(cfg.Sessions, cfg.Orchestrator)

	r.Route("/api", func(api chi.Router) {
		profiles.RegisterRoutes(api)
		sessions.RegisterRoutes(api)

		api.Route("/session/{sessionID}", func(sr chi.Router) {
			dossiers.RegisterRoutes(sr)
			advices.RegisterRoutes(sr)
		})

		ws.RegisterWebSocketRoutes(api)
	})

	return r
}
