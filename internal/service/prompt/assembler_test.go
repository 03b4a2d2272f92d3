package prompt

import (
	"strings"
	"testing"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/search"
)

var testProfile = profile.Profile{
	ID:          "retraite",
	Label:       "Retraité",
	Description: "Priorités : Compléments de revenus, Protection inflation, Succession, LMNP.",
}

func TestAssembleDeterministic(t *testing.T) {
	history := []dossier.Turn{
		{Role: dossier.RoleUser, Text: "Qu'est-ce que l'IFI ?"},
		{Role: dossier.RoleAssistant, Text: "L'IFI est l'impôt sur la fortune immobilière."},
	}

	first := Assemble(testProfile, "2026", "", nil, history, "Quel est le seuil ?")
	second := Assemble(testProfile, "2026", "", nil, history, "Quel est le seuil ?")
	if first != second {
		t.Fatal("identical inputs produced different payloads")
	}
}

func TestAssembleBlockOrder(t *testing.T) {
	history := []dossier.Turn{
		{Role: dossier.RoleUser, Text: "Bonjour"},
		{Role: dossier.RoleAssistant, Text: "Bonjour, comment puis-je vous aider ?"},
	}
	web := &WebInfo{Results: []search.Result{
		{Title: "Barème IFI", URL: "https://example.fr/ifi", Snippet: "Seuil à 1,3 M d'euros."},
	}}

	payload := Assemble(testProfile, "2025", "Relevé de compte 2024.", web, history, "Suis-je imposable ?")

	markers := []string{
		"RÔLE : Expert Senior en Gestion de Patrimoine.",
		"CONTEXTE : 2025. Profil : Retraité.",
		"--- DÉBUT DOCUMENT CLIENT ---",
		"Relevé de compte 2024.",
		"--- FIN DOCUMENT CLIENT ---",
		"--- INFORMATIONS WEB RÉCENTES ---",
		"1. Barème IFI (https://example.fr/ifi) : Seuil à 1,3 M d'euros.",
		"--- FIN INFORMATIONS WEB ---",
		"USER: Bonjour\n",
		"ASSISTANT: Bonjour, comment puis-je vous aider ?\n",
		"USER: Suis-je imposable ?\n",
	}
	pos := -1
	for _, marker := range markers {
		idx := strings.Index(payload, marker)
		if idx < 0 {
			t.Fatalf("payload missing %q\n%s", marker, payload)
		}
		if idx <= pos {
			t.Fatalf("marker %q out of order\n%s", marker, payload)
		}
		pos = idx
	}
	if !strings.HasSuffix(payload, "ASSISTANT:") {
		t.Fatalf("payload missing trailing generation cue:\n%s", payload)
	}
}

func TestAssembleOmitsEmptyBlocks(t *testing.T) {
	payload := Assemble(testProfile, "2026", "", nil, nil, "Question")

	if strings.Contains(payload, "DOCUMENT CLIENT") {
		t.Fatal("document block present without a document")
	}
	if strings.Contains(payload, "INFORMATIONS WEB") {
		t.Fatal("web block present without web search")
	}
}

func TestAssembleDegradedWebNotice(t *testing.T) {
	payload := Assemble(testProfile, "2026", "", &WebInfo{Degraded: true}, nil, "Question")

	if !strings.Contains(payload, "Recherche web indisponible pour ce tour.") {
		t.Fatalf("degraded notice missing:\n%s", payload)
	}
}

func TestAssembleCapsWebResults(t *testing.T) {
	results := make([]search.Result, 5)
	for i := range results {
		results[i] = search.Result{Title: "t", URL: "u", Snippet: "s"}
	}
	payload := Assemble(testProfile, "2026", "", &WebInfo{Results: results}, nil, "Question")

	if strings.Contains(payload, "4. ") {
		t.Fatalf("more than %d web results rendered:\n%s", MaxWebResults, payload)
	}
}

func TestAssembleReplaysFullHistory(t *testing.T) {
	history := make([]dossier.Turn, 0, 40)
	for i := 0; i < 20; i++ {
		history = append(history,
			dossier.Turn{Role: dossier.RoleUser, Text: "question"},
			dossier.Turn{Role: dossier.RoleAssistant, Text: "réponse"},
		)
	}

	payload := Assemble(testProfile, "2026", "", nil, history, "dernière question")

	if got := strings.Count(payload, "USER: question"); got != 20 {
		t.Fatalf("history truncated: %d of 20 user turns", got)
	}
	if got := strings.Count(payload, "ASSISTANT: réponse"); got != 20 {
		t.Fatalf("history truncated: %d of 20 assistant turns", got)
	}
}
