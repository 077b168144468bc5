package answer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gurjar1/gpt-researcher/internal/dispatch"
	"github.com/gurjar1/gpt-researcher/internal/quota"
	"github.com/gurjar1/gpt-researcher/pkg/llm"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T, providers []*dispatch.Provider, gen llm.Provider) *gin.Engine {
	t.Helper()
	ledger := quota.NewLedger(nullStore{}, logging.NewLogger())
	dispatcher := dispatch.NewDispatcher(dispatch.NewRegistryFromProviders(providers), ledger, logging.NewLogger())
	pipeline := NewPipeline(dispatcher, gen, logging.NewLogger(), 6, 500)
	handler := NewHandler(pipeline, dispatcher, logging.NewLogger(), 5)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func decodeEvents(t *testing.T, body string) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatalf("bad event line %q: %v", line, err)
		}
		events = append(events, event)
	}
	return events
}

func TestQuickSearchStreamsEventSequence(t *testing.T) {
	t.Parallel()

	router := testRouter(t, []*dispatch.Provider{
		{ID: "p1", Kind: dispatch.KindSearxng, Client: &stubSearch{results: threeResults()}},
	}, &stubGenerator{stream: &scriptedStream{fragments: []string{"Go is ", "a language."}}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quick-search", strings.NewReader(`{"query":"what is Go","focus_mode":"quick"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}

	events := decodeEvents(t, rec.Body.String())
	var types []string
	for _, e := range events {
		types = append(types, e["type"].(string))
	}
	if strings.Join(types, ",") != "sources,start,chunk,chunk,done" {
		t.Fatalf("unexpected event sequence: %v", types)
	}
	if events[0]["query"] != "what is Go" || events[0]["focus_mode"] != "quick" {
		t.Fatalf("unexpected sources event: %+v", events[0])
	}
	sources := events[0]["sources"].([]interface{})
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	if events[2]["content"] != "Go is " {
		t.Fatalf("unexpected first chunk: %+v", events[2])
	}
}

func TestQuickSearchNoSources(t *testing.T) {
	t.Parallel()

	router := testRouter(t, []*dispatch.Provider{
		{ID: "p1", Kind: dispatch.KindSearxng, Client: &stubSearch{}},
	}, &stubGenerator{stream: &scriptedStream{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quick-search", strings.NewReader(`{"query":"nothing"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestQuickSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	router := testRouter(t, []*dispatch.Provider{
		{ID: "p1", Kind: dispatch.KindSearxng, Client: &stubSearch{results: threeResults()}},
	}, &stubGenerator{stream: &scriptedStream{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quick-search", strings.NewReader(`{"query":"  "}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestQuickSearchSyncCollectsAnswer(t *testing.T) {
	t.Parallel()

	router := testRouter(t, []*dispatch.Provider{
		{ID: "p1", Kind: dispatch.KindSearxng, Client: &stubSearch{results: threeResults()}},
	}, &stubGenerator{stream: &scriptedStream{fragments: []string{"Hello ", "there."}}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quick-search-sync", strings.NewReader(`{"query":"greeting"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Query   string `json:"query"`
		Answer  string `json:"answer"`
		Sources []struct {
			Title string `json:"title"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "Hello there." || len(resp.Sources) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSearchUsageEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(t, []*dispatch.Provider{
		{ID: "searxng", Kind: dispatch.KindSearxng, Client: &stubSearch{results: threeResults()}},
		{ID: "tavily_1", Kind: dispatch.KindTavily, Limit: 1000, Client: &stubSearch{results: threeResults()}},
	}, &stubGenerator{stream: &scriptedStream{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search-usage", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var stats dispatch.UsageStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Month == "" || len(stats.Providers) != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Providers[0].Remaining != "unlimited" {
		t.Fatalf("unexpected searxng stats: %+v", stats.Providers[0])
	}
}
