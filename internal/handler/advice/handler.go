// Package advice exposes the question/answer cycle and the session
// context controls (profile, year, web search, client document).
package advice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	profileModel "github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	aiService "github.com/cabinet-ia/patrimoine/backend/internal/service/ai"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/document"
	sessionService "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/turn"
	"github.com/cabinet-ia/patrimoine/backend/pkg/export"
	"github.com/cabinet-ia/patrimoine/backend/pkg/utils"
)

// Handler drives turns and context mutations for one session.
type Handler struct {
	sessions       *sessionService.Service
	orchestrator   *turn.Orchestrator
	profiles       profileModel.Store
	maxUploadBytes int64
}

// New creates the advice handler.
func New(sessions *sessionService.Service, orchestrator *turn.Orchestrator, profiles profileModel.Store, maxUploadBytes int64) *Handler {
	return &Handler{
		sessions:       sessions,
		orchestrator:   orchestrator,
		profiles:       profiles,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the advice routes under a session scope.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ask", h.handleAsk)
	r.Put("/context", h.handleUpdateContext)
	r.Post("/document", h.handleUploadDocument)
	r.Delete("/document", h.handleClearDocument)
	r.Get("/export", h.handleExport)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) (*sessionService.State, bool) {
	state, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return state, true
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	var payload struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orchestrator.Run(r.Context(), state, payload.Question)
	if err != nil {
		utils.RespondError(w, statusForTurnError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// statusForTurnError maps the turn failure taxonomy onto HTTP statuses.
func statusForTurnError(err error) int {
	switch {
	case errors.Is(err, turn.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, sessionService.ErrTurnInFlight):
		return http.StatusConflict
	case errors.Is(err, aiService.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, aiService.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, aiService.ErrInvalidModel):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) handleUpdateContext(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	var payload struct {
		ProfileID *string `json:"profileId"`
		Year      *string `json:"year"`
		WebSearch *bool   `json:"webSearch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ProfileID != nil {
		selected, found := h.profiles.FindByID(*payload.ProfileID)
		if !found {
			utils.RespondError(w, http.StatusBadRequest, "profile not found")
			return
		}
		state.SetProfile(selected)
	}

	if payload.Year != nil {
		if !profileModel.ValidYear(*payload.Year) {
			utils.RespondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported reference year %q", *payload.Year))
			return
		}
		state.SetYear(*payload.Year)
	}

	if payload.WebSearch != nil {
		state.SetWebSearch(*payload.WebSearch)
	}

	h.respondContext(w, state)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("document")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	text, err := document.ExtractText(data)
	if err != nil {
		// Best-effort degradation: the session keeps working without
		// the document.
		log.Printf("[advice] document extraction degraded: %v", err)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "degraded",
			"message": document.UnreadableNotice,
		})
		return
	}

	state.SetDocument(text)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "loaded",
		"characters": len(text),
	})
}

func (h *Handler) handleClearDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	state.ClearDocument()
	h.respondContext(w, state)
}

func (h *Handler) respondContext(w http.ResponseWriter, state *sessionService.State) {
	sctx := state.ContextSnapshot()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"profileId":      sctx.Profile.ID,
		"year":           sctx.Year,
		"webSearch":      sctx.WebSearchEnabled,
		"documentLoaded": sctx.DocumentText != "",
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	name, turns := state.ActiveTranscript()
	sctx := state.ContextSnapshot()

	data, err := export.TranscriptPDF(name, turns, sctx.Profile.Label, sctx.Year, time.Now())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[advice] failed to stream export: %v", err)
	}
}
