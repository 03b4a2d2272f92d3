// Package ai wraps the generative-model collaborator behind the single
// operation the rest of the system depends on: generate(payload) ->
// reply.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/cabinet-ia/patrimoine/backend/internal/config"
)

// Service runs assembled payloads through an eino chain backed by the
// configured Ark chat model.
type Service struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	cfg    config.AIConfig
	invoke func(ctx context.Context, payload string) (string, error)
}

// NewService creates the model collaborator. The whole assembled
// context travels as a single user message; instruction/history
// separation is encoded in the payload text itself.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{payload}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	s := &Service{chain: runnable, cfg: cfg}
	s.invoke = s.invokeChain
	return s, nil
}

// Generate submits payload and returns the model's reply text.
// Transient failures (rate limit, service busy) are retried up to
// cfg.MaxRetries times with increasing backoff; permanent failures
// surface immediately. Every returned error belongs to the taxonomy in
// errors.go.
func (s *Service) Generate(ctx context.Context, payload string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := s.cfg.RetryBackoff * time.Duration(attempt)
			log.Printf("[ai] retrying after transient failure (attempt %d/%d, backoff %s)", attempt, s.cfg.MaxRetries, wait)
			select {
			case <-ctx.Done():
				return "", Classify(ctx.Err())
			case <-time.After(wait):
			}
		}

		reply, err := s.invoke(ctx, payload)
		if err == nil {
			if strings.TrimSpace(reply) == "" {
				return "", fmt.Errorf("%w: empty reply", ErrUnknown)
			}
			return reply, nil
		}

		classified := Classify(err)
		if !Transient(classified) {
			return "", classified
		}
		lastErr = classified
	}
	return "", lastErr
}

func (s *Service) invokeChain(ctx context.Context, payload string) (string, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{"payload": payload})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}
