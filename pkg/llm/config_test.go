package llm

import "testing"

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"openai", "ollama", "lm_studio", "local_ai", "vllm", "text_gen_webui"} {
		if _, err := NewProvider(Config{Provider: name, Model: "m"}); err != nil {
			t.Fatalf("provider %s: %v", name, err)
		}
	}
	if _, err := NewProvider(Config{Provider: "nonsense"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	cfg := LoadConfig()
	if cfg.Provider != "ollama" {
		t.Fatalf("expected ollama default, got %q", cfg.Provider)
	}
	if cfg.Model != "llama3.1" {
		t.Fatalf("expected llama3.1 default, got %q", cfg.Model)
	}
}
