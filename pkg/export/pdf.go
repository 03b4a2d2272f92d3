// Package export renders a settled transcript as a PDF report. It is
// pure formatting over already-persisted data and takes no part in the
// turn state machine.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/dossier"
)

// TranscriptPDF renders the dossier transcript with its advisory
// context header and returns the document bytes.
func TranscriptPDF(dossierName string, turns []dossier.Turn, profileLabel, year string, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps French accents intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(dossierName), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Cabinet Patrimoine - "+dossierName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Profil : %s / Référentiel fiscal : %s", profileLabel, year)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Édité le "+generatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, turn := range turns {
		label := "Client"
		if turn.Role == dossier.RoleAssistant {
			label = "Conseiller IA"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(label), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(turn.Text), "", "L", false)
		pdf.Ln(2)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4, tr("Document informatif généré automatiquement. Il ne constitue pas un conseil personnalisé."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}
