package llm

import (
	"fmt"
	"strings"

	"github.com/gurjar1/gpt-researcher/pkg/config"
)

type Config struct {
	Provider string
	Model    string
	APIKey   string
	APIURL   string
}

func LoadConfig() Config {
	return Config{
		Provider: config.GetEnv("LLM_PROVIDER", "ollama"),
		Model:    config.GetEnv("LLM_MODEL", "llama3.1"),
		APIKey:   config.GetEnv("LLM_API_KEY", ""),
		APIURL:   config.GetEnv("LLM_API_URL", ""),
	}
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "ollama":
		return NewOllamaProvider(cfg), nil
	case BackendLMStudio, BackendLocalAI, BackendVLLM, BackendTextGenWebUI:
		// All remaining local backends are OpenAI-compatible; default the
		// URL from the backend catalog when unset.
		if strings.TrimSpace(cfg.APIURL) == "" {
			if info, ok := LookupBackend(cfg.Provider); ok {
				cfg.APIURL = info.DefaultURL + "/v1"
			}
		}
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
