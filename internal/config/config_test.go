package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SEARX_URL", "TAVILY_API_KEYS", "SEARCH_NUM_RESULTS", "QUOTA_STORE"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.NumResults != 5 {
		t.Fatalf("expected 5 default results, got %d", cfg.NumResults)
	}
	if cfg.HistoryMaxMessages != 6 || cfg.HistoryMaxChars != 500 {
		t.Fatalf("unexpected history defaults: %d/%d", cfg.HistoryMaxMessages, cfg.HistoryMaxChars)
	}
	if cfg.QuotaStore != "file" {
		t.Fatalf("expected file quota store default, got %q", cfg.QuotaStore)
	}
}

func TestLoadConfigKeyLists(t *testing.T) {
	t.Setenv("TAVILY_API_KEYS", "k1, k2")
	t.Setenv("BRAVE_API_KEYS", "b1")
	cfg := LoadConfig()
	if len(cfg.TavilyKeys) != 2 || cfg.TavilyKeys[1] != "k2" {
		t.Fatalf("unexpected tavily keys: %v", cfg.TavilyKeys)
	}
	if len(cfg.BraveKeys) != 1 {
		t.Fatalf("unexpected brave keys: %v", cfg.BraveKeys)
	}
}
