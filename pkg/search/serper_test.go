package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerperSearchMapsOrganicResults(t *testing.T) {
	t.Parallel()

	errCh := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "serper-key" {
			errCh <- fmt.Errorf("expected api key header, got %q", got)
			return
		}
		var req serperRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errCh <- fmt.Errorf("decode request: %w", err)
			return
		}
		if req.Num != 5 {
			errCh <- fmt.Errorf("expected num 5, got %d", req.Num)
			return
		}
		_, _ = w.Write([]byte(`{"organic":[{"title":"SERP Result","link":"https://s.example","snippet":"snip"}]}`))
	}))
	defer server.Close()

	provider, err := NewSerperProvider("serper-key", server.URL)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	results, err := provider.Search(context.Background(), "encoder", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("handler error: %v", err)
	default:
	}
	// Serper uses "link" rather than "url" in its payload.
	if len(results) != 1 || results[0].URL != "https://s.example" {
		t.Fatalf("unexpected results: %+v", results)
	}
}
