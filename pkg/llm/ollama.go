package llm

import (
	"context"
	"strings"
)

// OllamaProvider uses Ollama's OpenAI-compatible endpoint.
type OllamaProvider struct {
	openai *OpenAIProvider
}

func NewOllamaProvider(cfg Config) *OllamaProvider {
	cfgCopy := cfg
	if strings.TrimSpace(cfgCopy.APIURL) == "" {
		cfgCopy.APIURL = "http://localhost:11434/v1"
	}
	return &OllamaProvider{
		openai: NewOpenAIProvider(cfgCopy),
	}
}

func (p *OllamaProvider) Complete(ctx context.Context, messages []Message) (Stream, error) {
	return p.openai.Complete(ctx, messages)
}

// WithModel returns a provider bound to a different Ollama model.
func (p *OllamaProvider) WithModel(model string) Provider {
	inner := p.openai.WithModel(model)
	if inner == Provider(p.openai) {
		return p
	}
	clone, ok := inner.(*OpenAIProvider)
	if !ok {
		return inner
	}
	return &OllamaProvider{openai: clone}
}
