package dossier

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	dossierModel "github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
	sessionService "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
	"github.com/cabinet-ia/patrimoine/backend/pkg/utils"
)

// Handler exposes dossier management for one session.
type Handler struct {
	sessions *sessionService.Service
}

// New creates the dossier handler.
func New(sessions *sessionService.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the dossier routes under a session scope.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/dossiers", h.handleCreate)
	r.Get("/dossiers", h.handleList)
	r.Post("/dossiers/select", h.handleSelect)
	r.Post("/dossiers/rename", h.handleRename)
	r.Delete("/dossiers/{name}", h.handleDelete)
	r.Get("/transcript", h.handleTranscript)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) (*sessionService.State, bool) {
	state, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return state, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	name := state.CreateDossier()
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	names, active := state.Dossiers()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"dossiers": names,
		"active":   active,
	})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Selecting a missing dossier self-heals to a valid active pointer
	// rather than failing; the effective selection is echoed back.
	active := state.SelectDossier(payload.Name)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"active": active})
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	var payload struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	renamed := state.RenameDossier(payload.OldName, payload.NewName)
	names, active := state.Dossiers()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"renamed":  renamed,
		"dossiers": names,
		"active":   active,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	// Dossier names carry spaces and accents, so the path segment
	// arrives percent-encoded.
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid dossier name")
		return
	}
	if err := state.DeleteDossier(name); err != nil {
		switch {
		case errors.Is(err, dossierModel.ErrLastDossier):
			utils.RespondError(w, http.StatusConflict, "impossible de supprimer le dernier dossier")
		case errors.Is(err, dossierModel.ErrUnknownDossier):
			utils.RespondError(w, http.StatusNotFound, "dossier not found")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	names, active := state.Dossiers()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"dossiers": names,
		"active":   active,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	state, ok := h.state(w, r)
	if !ok {
		return
	}

	name, turns := state.ActiveTranscript()
	if turns == nil {
		turns = []dossierModel.Turn{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"dossier": name,
		"turns":   turns,
	})
}
