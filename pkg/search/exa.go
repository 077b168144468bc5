package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultExaURL = "https://api.exa.ai/search"

// ExaProvider implements the Exa.ai semantic search API.
type ExaProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewExaProvider creates an Exa search provider.
func NewExaProvider(apiKey, apiURL string) (*ExaProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("exa api key is required")
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultExaURL
	}
	return &ExaProvider{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type exaRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"numResults,omitempty"`
	UseAutoprompt bool   `json:"useAutoprompt"`
	Type          string `json:"type"`
}

type exaResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// Search executes a query against the Exa.ai API.
func (p *ExaProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	payload, err := json.Marshal(exaRequest{
		Query:         query,
		NumResults:    opts.Limit,
		UseAutoprompt: true,
		Type:          "neural",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal exa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create exa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("exa request failed with status %d", resp.StatusCode)
	}

	var decoded exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode exa response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, item := range decoded.Results {
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: strings.TrimSpace(item.Text),
		})
	}

	return results, nil
}
