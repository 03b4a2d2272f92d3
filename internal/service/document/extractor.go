// Package document wraps best-effort PDF text extraction for the
// document Q&A feature. Extraction never fails a turn: unreadable
// input degrades to a short human-readable notice.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable marks input that could not be parsed as a PDF.
var ErrUnreadable = errors.New("unreadable pdf")

// UnreadableNotice is the user-facing degraded message.
const UnreadableNotice = "Document illisible : le PDF n'a pas pu être analysé."

// ExtractText pulls the plain text out of a PDF, page by page. Pages
// that fail to decode are skipped; a document yielding no text at all
// is reported as unreadable.
func ExtractText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: aucun texte extrait", ErrUnreadable)
	}
	return b.String(), nil
}
