package title

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f fakeGenerator) Generate(ctx context.Context, payload string) (string, error) {
	return f.reply, f.err
}

func TestSuggestSanitizesReply(t *testing.T) {
	svc := NewService(fakeGenerator{reply: "«Transmission du patrimoine familial.»\nExplications superflues."})

	got, err := svc.Suggest(context.Background(), "Comment transmettre mon patrimoine ?")
	if err != nil {
		t.Fatalf("Suggest err: %v", err)
	}
	if got != "Transmission du patrimoine familial" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestSuggestPropagatesGeneratorError(t *testing.T) {
	svc := NewService(fakeGenerator{err: errors.New("boom")})

	if _, err := svc.Suggest(context.Background(), "question"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSuggestRejectsEmptyAndOversized(t *testing.T) {
	if _, err := NewService(fakeGenerator{reply: `"  "`}).Suggest(context.Background(), "q"); err == nil {
		t.Fatal("expected error for blank suggestion")
	}

	long := strings.Repeat("patrimoine ", 10)
	if _, err := NewService(fakeGenerator{reply: long}).Suggest(context.Background(), "q"); err == nil {
		t.Fatal("expected error for oversized suggestion")
	}
}
