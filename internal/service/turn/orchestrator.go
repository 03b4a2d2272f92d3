// Package turn drives one question/answer cycle: append the user turn,
// assemble the bounded context, invoke the model, append the reply, and
// trigger best-effort auto-titling on the first exchange.
package turn

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/cabinet-ia/patrimoine/backend/internal/analysis/chart"
	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/prompt"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/search"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/session"
)

// ErrEmptyQuestion rejects blank submissions before any state changes.
var ErrEmptyQuestion = errors.New("question is empty")

// State tracks where a turn ended.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingModel State = "awaiting_model"
	StateSettled       State = "settled"
	StateFailed        State = "failed"
)

// Generator is the model collaborator boundary.
type Generator interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// Titler suggests a dossier name from the opening question.
type Titler interface {
	Suggest(ctx context.Context, question string) (string, error)
}

// Result reports the outcome of one settled turn.
type Result struct {
	State     State       `json:"state"`
	Reply     string      `json:"reply,omitempty"`
	Chart     *chart.Spec `json:"chart,omitempty"`
	RenamedTo string      `json:"renamedTo,omitempty"`
}

// Orchestrator coordinates the collaborators for each turn.
type Orchestrator struct {
	gen      Generator
	titler   Titler
	searcher search.Searcher
}

// New assembles an orchestrator. titler and searcher may be nil; the
// corresponding features are then skipped.
func New(gen Generator, titler Titler, searcher search.Searcher) *Orchestrator {
	return &Orchestrator{gen: gen, titler: titler, searcher: searcher}
}

// Run processes one user question against the session's active dossier.
// The user turn is appended before the model is called and survives any
// failure; a failed model call appends nothing else. On success the
// reply is appended verbatim (chart sentinel included, so history
// replays match what the model produced) and the cleaned reply plus any
// parsed chart are returned.
func (o *Orchestrator) Run(ctx context.Context, st *session.State, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{State: StateIdle}, ErrEmptyQuestion
	}

	snap, err := st.BeginTurn(question)
	if err != nil {
		return Result{State: StateIdle}, err
	}

	web := o.lookupWeb(ctx, snap.Context.WebSearchEnabled, question)
	payload := prompt.Assemble(snap.Context.Profile, snap.Context.Year, snap.Context.DocumentText, web, snap.History, question)

	reply, err := o.gen.Generate(ctx, payload)
	if err != nil {
		st.FailTurn()
		return Result{State: StateFailed}, err
	}

	st.CompleteTurn(snap.Dossier, reply)

	result := Result{State: StateSettled, Reply: reply}
	if spec, cleaned, ok := chart.Extract(reply); ok {
		result.Reply = cleaned
		result.Chart = spec
	}

	if renamed := o.autoTitle(ctx, st, snap, question); renamed != "" {
		result.RenamedTo = renamed
	}

	return result, nil
}

// lookupWeb gathers search results when the toggle is on. Search fails
// open: any error or empty answer degrades to a notice block.
func (o *Orchestrator) lookupWeb(ctx context.Context, enabled bool, question string) *prompt.WebInfo {
	if !enabled {
		return nil
	}
	if o.searcher == nil {
		return &prompt.WebInfo{Degraded: true}
	}

	results, err := o.searcher.Search(ctx, question)
	if err != nil || len(results) == 0 {
		if err != nil {
			log.Printf("[turn] web search degraded: %v", err)
		}
		return &prompt.WebInfo{Degraded: true}
	}
	return &prompt.WebInfo{Results: results}
}

// autoTitle renames a dossier after its first successful exchange. It
// fires only when the transcript grew from empty to exactly one
// user/assistant pair and the dossier still carries a default name.
// Every failure is swallowed: titling must never fail the primary turn.
func (o *Orchestrator) autoTitle(ctx context.Context, st *session.State, snap session.Snapshot, question string) string {
	if o.titler == nil || len(snap.History) != 0 || !dossier.IsDefaultName(snap.Dossier) {
		return ""
	}

	suggestion, err := o.titler.Suggest(ctx, question)
	if err != nil {
		log.Printf("[turn] auto-title skipped for %q: %v", snap.Dossier, err)
		return ""
	}
	if !st.AutoRename(snap.Dossier, suggestion) {
		return ""
	}
	log.Printf("[turn] dossier %q renamed to %q", snap.Dossier, suggestion)
	return suggestion
}
