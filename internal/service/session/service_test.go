package session_test

import (
	"context"
	"testing"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	sessionservice "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
)

func newService() *sessionservice.Service {
	return sessionservice.NewService(profile.NewMemoryStore(profile.Seed()))
}

func TestCreateSeedsDefaultState(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	meta, err := svc.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	state, err := svc.Get(ctx, meta.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}

	names, active := state.Dossiers()
	if len(names) != 1 || names[0] != "Dossier 1" || active != "Dossier 1" {
		t.Fatalf("unexpected default registry: names=%v active=%q", names, active)
	}

	sctx := state.ContextSnapshot()
	if sctx.Profile.ID != "general" {
		t.Fatalf("unexpected default profile: %q", sctx.Profile.ID)
	}
	if sctx.Year != profile.DefaultYear {
		t.Fatalf("unexpected default year: %q", sctx.Year)
	}
	if sctx.WebSearchEnabled || sctx.DocumentText != "" {
		t.Fatalf("context not pristine: %+v", sctx)
	}
}

func TestCreateWithProfile(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	meta, err := svc.Create(ctx, "retraite")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	state, _ := svc.Get(ctx, meta.ID)
	if got := state.ContextSnapshot().Profile.ID; got != "retraite" {
		t.Fatalf("profile not applied: %q", got)
	}

	if _, err := svc.Create(ctx, "inconnu"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestGetMissingSession(t *testing.T) {
	svc := newService()
	if _, err := svc.Get(context.Background(), "missing"); err != sessionservice.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTurnGate(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	meta, _ := svc.Create(ctx, "")
	state, _ := svc.Get(ctx, meta.ID)

	snap, err := state.BeginTurn("Première question")
	if err != nil {
		t.Fatalf("BeginTurn err: %v", err)
	}
	if snap.Dossier != "Dossier 1" || len(snap.History) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	if _, err := state.BeginTurn("Deuxième question"); err != sessionservice.ErrTurnInFlight {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	if !state.CompleteTurn(snap.Dossier, "Réponse") {
		t.Fatal("CompleteTurn should append")
	}
	_, turns := state.ActiveTranscript()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}

	// Gate released: a new turn may start.
	if _, err := state.BeginTurn("Troisième question"); err != nil {
		t.Fatalf("gate not released: %v", err)
	}
	state.FailTurn()
	_, turns = state.ActiveTranscript()
	if len(turns) != 3 {
		t.Fatalf("failed turn should keep the user turn: %d", len(turns))
	}
}

func TestAutoRenameGuards(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	meta, _ := svc.Create(ctx, "")
	state, _ := svc.Get(ctx, meta.ID)

	if state.AutoRename("Succession Martin", "Titre") {
		t.Fatal("non-default names must not be auto-renamed")
	}
	if !state.AutoRename("Dossier 1", "Seuil IFI") {
		t.Fatal("default-named dossier should be auto-renamed")
	}
	names, active := state.Dossiers()
	if names[0] != "Seuil IFI" || active != "Seuil IFI" {
		t.Fatalf("rename not applied: names=%v active=%q", names, active)
	}
	if state.AutoRename("Dossier 1", "Autre") {
		t.Fatal("auto-rename of a vanished dossier should fail")
	}
}
