// Package session owns the per-session state: an isolated dossier
// registry plus the session context (profile, reference year, loaded
// document, web-search toggle). Nothing is shared across sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTurnInFlight    = errors.New("a turn is already in flight for this session")
)

// Session is the wire-level session descriptor.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Context is the per-session auxiliary state read by the context
// assembler. The profile and year apply to every dossier of the
// session; this global scoping is deliberate (see DESIGN.md).
type Context struct {
	Profile          profile.Profile
	Year             string
	DocumentText     string
	WebSearchEnabled bool
}

// Snapshot freezes everything a turn needs at the moment the user turn
// is appended: the target dossier, the prior history and the context.
type Snapshot struct {
	Dossier string
	History []dossier.Turn
	Context Context
}

// State holds one session's mutable state behind its own lock.
type State struct {
	mu           sync.Mutex
	meta         Session
	registry     *dossier.Registry
	context      Context
	turnInFlight bool
}

// Service manages session lifecycles, keyed by generated IDs.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*State
	profiles profile.Store
}

// NewService bootstraps the in-memory session service.
func NewService(profiles profile.Store) *Service {
	return &Service{
		sessions: make(map[string]*State),
		profiles: profiles,
	}
}

// Create provisions a session with a fresh registry (one empty default
// dossier) and the default context. An empty profileID selects the
// default profile.
func (s *Service) Create(_ context.Context, profileID string) (Session, error) {
	selected := s.profiles.Default()
	if profileID != "" {
		found, ok := s.profiles.FindByID(profileID)
		if !ok {
			return Session{}, errors.New("profile not found")
		}
		selected = found
	}

	state := &State{
		meta: Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
		registry: dossier.NewRegistry(),
		context: Context{
			Profile: selected,
			Year:    profile.DefaultYear,
		},
	}

	s.mu.Lock()
	s.sessions[state.meta.ID] = state
	s.mu.Unlock()

	return state.meta, nil
}

// Get retrieves a session's state by identifier.
func (s *Service) Get(_ context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// Meta returns the session descriptor.
func (st *State) Meta() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.meta
}

// CreateDossier opens a fresh dossier and makes it active.
func (st *State) CreateDossier() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.registry.Create()
}

// SelectDossier activates name and returns the effective active name.
func (st *State) SelectDossier(name string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.registry.Select(name)
}

// RenameDossier applies the registry rename rules.
func (st *State) RenameDossier(oldName, newName string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.registry.Rename(oldName, newName)
}

// DeleteDossier removes a dossier, honouring the last-dossier guard.
func (st *State) DeleteDossier(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.registry.Delete(name)
}

// Dossiers lists names in stable order along with the active name.
func (st *State) Dossiers() (names []string, active string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.registry.Names(), st.registry.Active()
}

// ActiveTranscript returns a copy of the active dossier's turns.
func (st *State) ActiveTranscript() (string, []dossier.Turn) {
	st.mu.Lock()
	defer st.mu.Unlock()
	name := st.registry.Active()
	turns, _ := st.registry.Transcript(name)
	return name, turns
}

// SetProfile switches the session-wide expert profile.
func (st *State) SetProfile(p profile.Profile) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.context.Profile = p
}

// SetYear switches the fiscal reference year.
func (st *State) SetYear(year string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.context.Year = year
}

// SetWebSearch toggles the web-search augmentation.
func (st *State) SetWebSearch(enabled bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.context.WebSearchEnabled = enabled
}

// SetDocument installs extracted document text for document Q&A.
func (st *State) SetDocument(text string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.context.DocumentText = text
}

// ClearDocument removes any loaded document.
func (st *State) ClearDocument() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.context.DocumentText = ""
}

// ContextSnapshot returns a copy of the session context.
func (st *State) ContextSnapshot() Context {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.context
}

// BeginTurn appends the user turn to the active dossier and freezes the
// state the turn needs. At most one turn may be in flight per session;
// a second submission is rejected with ErrTurnInFlight. The appended
// user turn is never rolled back, even if the turn later fails.
func (st *State) BeginTurn(userText string) (Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.turnInFlight {
		return Snapshot{}, ErrTurnInFlight
	}

	active := st.registry.Active()
	history, _ := st.registry.Transcript(active)
	st.registry.Append(dossier.Turn{Role: dossier.RoleUser, Text: userText})
	st.turnInFlight = true

	return Snapshot{
		Dossier: active,
		History: history,
		Context: st.context,
	}, nil
}

// CompleteTurn appends the assistant reply to the dossier captured at
// BeginTurn and releases the turn gate.
func (st *State) CompleteTurn(dossierName, reply string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.turnInFlight = false
	return st.registry.AppendTo(dossierName, dossier.Turn{Role: dossier.RoleAssistant, Text: reply})
}

// FailTurn releases the turn gate without touching the transcript.
func (st *State) FailTurn() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.turnInFlight = false
}

// AutoRename renames a still-default-named dossier to title. It refuses
// to overwrite a manual rename performed while the turn was in flight.
func (st *State) AutoRename(oldName, title string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !dossier.IsDefaultName(oldName) {
		return false
	}
	if _, ok := st.registry.Transcript(oldName); !ok {
		return false
	}
	return st.registry.Rename(oldName, title)
}
