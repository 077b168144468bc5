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

const defaultLinkupURL = "https://api.linkup.so/v1/search"

// LinkupProvider implements the Linkup web search API.
type LinkupProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewLinkupProvider creates a Linkup search provider.
func NewLinkupProvider(apiKey, apiURL string) (*LinkupProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("linkup api key is required")
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultLinkupURL
	}
	return &LinkupProvider{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type linkupRequest struct {
	Query      string `json:"q"`
	Depth      string `json:"depth"`
	OutputType string `json:"outputType"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type linkupResponse struct {
	Results []struct {
		Name    string `json:"name"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search executes a query against the Linkup API.
func (p *LinkupProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	payload, err := json.Marshal(linkupRequest{
		Query:      query,
		Depth:      "standard",
		OutputType: "searchResults",
		MaxResults: opts.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal linkup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create linkup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("linkup request failed with status %d", resp.StatusCode)
	}

	var decoded linkupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode linkup response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, item := range decoded.Results {
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
		title := item.Name
		if title == "" {
			title = item.Title
		}
		snippet := item.Content
		if snippet == "" {
			snippet = item.Snippet
		}
		results = append(results, Result{
			Title:   title,
			URL:     item.URL,
			Snippet: strings.TrimSpace(snippet),
		})
	}

	return results, nil
}
