// Package prompt builds the exact text payload submitted to the model
// for one turn. Assembly is pure: the same transcript, session context
// and question always produce a byte-identical payload.
package prompt

import (
	"fmt"
	"strings"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/search"
)

// MaxWebResults caps how many search hits are rendered into the payload.
const MaxWebResults = 3

const personaTemplate = `RÔLE : Expert Senior en Gestion de Patrimoine.
CONTEXTE : %s. Profil : %s. %s
RÈGLES :
1. Sources : CGI et BOFiP.
2. Structure : Introduction juridique > Calculs/Chiffres > Conseil Stratégique.
3. Sécurité : Rappelle le caractère informatif de la réponse.`

const (
	documentBegin  = "--- DÉBUT DOCUMENT CLIENT ---"
	documentEnd    = "--- FIN DOCUMENT CLIENT ---"
	documentHint   = "Consigne : appuie-toi sur ce document lorsque c'est pertinent."
	webBegin       = "--- INFORMATIONS WEB RÉCENTES ---"
	webEnd         = "--- FIN INFORMATIONS WEB ---"
	webUnavailable = "Recherche web indisponible pour ce tour."
)

// WebInfo carries the search contribution for one turn. Degraded marks
// a failed or empty lookup; the payload then contains a short notice
// instead of results, and the turn proceeds.
type WebInfo struct {
	Results  []search.Result
	Degraded bool
}

// Assemble renders the full model payload for one turn. Block order is
// load-bearing: persona, then document, then web info, then every prior
// turn in chronological order, then the new user line and the
// generation cue.
func Assemble(p profile.Profile, year string, documentText string, web *WebInfo, history []dossier.Turn, userText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, personaTemplate, year, p.Label, p.Description)
	b.WriteString("\n\n")

	if strings.TrimSpace(documentText) != "" {
		b.WriteString(documentBegin)
		b.WriteString("\n")
		b.WriteString(documentText)
		b.WriteString("\n")
		b.WriteString(documentEnd)
		b.WriteString("\n")
		b.WriteString(documentHint)
		b.WriteString("\n\n")
	}

	if web != nil {
		b.WriteString(webBegin)
		b.WriteString("\n")
		if web.Degraded || len(web.Results) == 0 {
			b.WriteString(webUnavailable)
			b.WriteString("\n")
		} else {
			results := web.Results
			if len(results) > MaxWebResults {
				results = results[:MaxWebResults]
			}
			for i, r := range results {
				fmt.Fprintf(&b, "%d. %s (%s) : %s\n", i+1, r.Title, r.URL, r.Snippet)
			}
		}
		b.WriteString(webEnd)
		b.WriteString("\n\n")
	}

	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", roleTag(turn.Role), turn.Text)
	}
	fmt.Fprintf(&b, "%s: %s\n", roleTag(dossier.RoleUser), userText)
	b.WriteString(roleTag(dossier.RoleAssistant))
	b.WriteString(":")

	return b.String()
}

func roleTag(role dossier.Role) string {
	return strings.ToUpper(string(role))
}
