package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
)

func TestTranscriptPDF(t *testing.T) {
	turns := []dossier.Turn{
		{Role: dossier.RoleUser, Text: "Quel est le seuil de l'IFI ?"},
		{Role: dossier.RoleAssistant, Text: "Le patrimoine immobilier net taxable est imposé au-delà de 1,3 million d'euros."},
	}

	data, err := TranscriptPDF("Succession Martin", turns, "Retraité", "2026", time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TranscriptPDF err: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
}

func TestTranscriptPDFEmptyTranscript(t *testing.T) {
	data, err := TranscriptPDF("Dossier 1", nil, "Mode Général (Recherche)", "2024", time.Now())
	if err != nil {
		t.Fatalf("TranscriptPDF err: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}
