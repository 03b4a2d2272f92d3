package dossier

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrLastDossier is returned when deleting the only remaining dossier.
	ErrLastDossier = errors.New("cannot delete the last remaining dossier")
	// ErrUnknownDossier is returned for operations naming a missing dossier.
	ErrUnknownDossier = errors.New("dossier not found")
)

const defaultNamePrefix = "Dossier"

var defaultNamePattern = regexp.MustCompile(`^Dossier [0-9]+$`)

// IsDefaultName reports whether name still follows the auto-generated
// "Dossier N" pattern. Auto-titling only applies to such dossiers.
func IsDefaultName(name string) bool {
	return defaultNamePattern.MatchString(name)
}

// Registry maps dossier names to transcripts and tracks the active
// dossier. It maintains two invariants: at least one dossier always
// exists, and the active name always resolves to a present key.
//
// The Registry is not safe for concurrent use; callers serialize access
// per session.
type Registry struct {
	transcripts map[string][]Turn
	order       []string
	active      string
	seq         int
}

// NewRegistry returns a registry seeded with an empty active "Dossier 1".
func NewRegistry() *Registry {
	r := &Registry{transcripts: make(map[string][]Turn)}
	r.Create()
	return r
}

// Create inserts a fresh empty dossier under the next free counter name,
// makes it active and returns its name. It always succeeds.
func (r *Registry) Create() string {
	for {
		r.seq++
		name := fmt.Sprintf("%s %d", defaultNamePrefix, r.seq)
		if _, exists := r.transcripts[name]; exists {
			continue
		}
		r.transcripts[name] = make([]Turn, 0, 16)
		r.order = append(r.order, name)
		r.active = name
		return name
	}
}

// Select makes name the active dossier. A missing name leaves the
// current (always valid) active pointer untouched, so the registry can
// never end up with a dangling selection. The effective active name is
// returned.
func (r *Registry) Select(name string) string {
	if _, ok := r.transcripts[name]; ok {
		r.active = name
	}
	r.heal()
	return r.active
}

// Rename moves the transcript at oldName to newName, keeping its
// identity and ordering. Empty or identical names are a no-op, as is a
// missing oldName. When newName already exists the entry at that key is
// overwritten and its transcript is lost; this mirrors the historical
// behaviour and is deliberately kept rather than fixed.
func (r *Registry) Rename(oldName, newName string) bool {
	if newName == "" || newName == oldName {
		return false
	}
	transcript, ok := r.transcripts[oldName]
	if !ok {
		return false
	}

	if _, exists := r.transcripts[newName]; exists {
		r.dropFromOrder(newName)
	}
	delete(r.transcripts, oldName)
	r.transcripts[newName] = transcript
	for i, n := range r.order {
		if n == oldName {
			r.order[i] = newName
			break
		}
	}
	if r.active == oldName || r.active == newName {
		r.active = newName
	}
	return true
}

// Delete removes the named dossier. Deleting the sole remaining dossier
// is rejected and the registry is left unchanged. When the active
// dossier is deleted, the first remaining dossier becomes active.
func (r *Registry) Delete(name string) error {
	if _, ok := r.transcripts[name]; !ok {
		return ErrUnknownDossier
	}
	if len(r.order) == 1 {
		return ErrLastDossier
	}

	delete(r.transcripts, name)
	r.dropFromOrder(name)
	if r.active == name {
		r.active = r.order[0]
	}
	return nil
}

// Names returns dossier names in insertion order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Active returns the currently selected dossier name.
func (r *Registry) Active() string {
	r.heal()
	return r.active
}

// Transcript returns a copy of the named dossier's turns.
func (r *Registry) Transcript(name string) ([]Turn, bool) {
	turns, ok := r.transcripts[name]
	if !ok {
		return nil, false
	}
	copied := make([]Turn, len(turns))
	copy(copied, turns)
	return copied, true
}

// ActiveTranscript returns a copy of the active dossier's turns.
func (r *Registry) ActiveTranscript() []Turn {
	turns, _ := r.Transcript(r.Active())
	return turns
}

// Append adds a turn to the active dossier and returns its name.
func (r *Registry) Append(turn Turn) string {
	name := r.Active()
	r.transcripts[name] = append(r.transcripts[name], turn)
	return name
}

// AppendTo adds a turn to the named dossier if it still exists. A turn
// settled after its dossier was deleted is silently discarded.
func (r *Registry) AppendTo(name string, turn Turn) bool {
	if _, ok := r.transcripts[name]; !ok {
		return false
	}
	r.transcripts[name] = append(r.transcripts[name], turn)
	return true
}

// heal repoints a dangling active pointer at the first dossier.
func (r *Registry) heal() {
	if _, ok := r.transcripts[r.active]; !ok {
		r.active = r.order[0]
	}
}

func (r *Registry) dropFromOrder(name string) {
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
