package document

import (
	"errors"
	"testing"
)

func TestExtractTextRejectsGarbage(t *testing.T) {
	_, err := ExtractText([]byte("ceci n'est pas un pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestExtractTextRejectsEmptyInput(t *testing.T) {
	_, err := ExtractText(nil)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestExtractTextRejectsTruncatedHeader(t *testing.T) {
	// A valid magic number with no body behind it.
	_, err := ExtractText([]byte("%PDF-1.7\n"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}
