// Package title derives a short dossier name from the first exchange.
// Titling is best-effort cosmetic behaviour: any failure keeps the
// default name and never affects the primary turn.
package title

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleRunes bounds accepted titles; longer suggestions are dropped.
const MaxTitleRunes = 48

const suggestionPrompt = `Propose un titre très court (5 mots maximum, sans guillemets ni ponctuation finale) pour un dossier client en gestion de patrimoine, à partir de cette première question :
%s
Réponds uniquement par le titre.`

// Generator is the model side of the titling call; satisfied by the ai
// service.
type Generator interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// Service issues one independent model call per titling request.
type Service struct {
	gen Generator
}

// NewService wires the titler onto an existing generator.
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// Suggest returns a usable title for a dossier opened with question, or
// an error when the model call fails or produces something unusable.
func (s *Service) Suggest(ctx context.Context, question string) (string, error) {
	reply, err := s.gen.Generate(ctx, fmt.Sprintf(suggestionPrompt, question))
	if err != nil {
		return "", err
	}

	suggestion := sanitize(reply)
	if suggestion == "" {
		return "", fmt.Errorf("empty title suggestion")
	}
	if utf8.RuneCountInString(suggestion) > MaxTitleRunes {
		return "", fmt.Errorf("title suggestion too long: %q", suggestion)
	}
	return suggestion, nil
}

// sanitize keeps the first line of the reply and strips decoration the
// model tends to add around short answers.
func sanitize(reply string) string {
	line := reply
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	line = strings.Trim(line, `"'«»`)
	line = strings.TrimRight(line, ".")
	return strings.TrimSpace(line)
}
