package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is one web hit contributed to the assembled context.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher is the web-search collaborator. Implementations are
// best-effort: callers treat any error as a degraded, empty result.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Client queries the DuckDuckGo Instant Answer API. It carries its own
// bounded timeout so a slow search can never stall a turn.
type Client struct {
	httpClient *http.Client
	endpoint   string
	maxResults int
}

// NewClient builds a search client against endpoint (the production
// value is https://api.duckduckgo.com/).
func NewClient(endpoint string, timeout time.Duration, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		maxResults: maxResults,
	}
}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

// Search returns up to maxResults hits for query.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("search response malformed: %w", err)
	}

	return c.collect(answer), nil
}

func (c *Client) collect(answer instantAnswer) []Result {
	results := make([]Result, 0, c.maxResults)

	if strings.TrimSpace(answer.AbstractText) != "" {
		results = append(results, Result{
			Title:   answer.Heading,
			URL:     answer.AbstractURL,
			Snippet: answer.AbstractText,
		})
	}

	var walk func(topics []relatedTopic)
	walk = func(topics []relatedTopic) {
		for _, topic := range topics {
			if len(results) >= c.maxResults {
				return
			}
			if len(topic.Topics) > 0 {
				walk(topic.Topics)
				continue
			}
			if strings.TrimSpace(topic.Text) == "" || topic.FirstURL == "" {
				continue
			}
			results = append(results, Result{
				Title:   topicTitle(topic.Text),
				URL:     topic.FirstURL,
				Snippet: topic.Text,
			})
		}
	}
	walk(answer.RelatedTopics)

	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results
}

// topicTitle extracts the leading entity name from an instant-answer
// topic line, which reads "Name - description".
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}
