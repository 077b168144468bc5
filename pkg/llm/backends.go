package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Supported local LLM backends.
const (
	BackendOllama       = "ollama"
	BackendLMStudio     = "lm_studio"
	BackendLocalAI      = "local_ai"
	BackendVLLM         = "vllm"
	BackendTextGenWebUI = "text_gen_webui"
)

// BackendInfo describes a supported LLM backend.
type BackendInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DefaultURL string `json:"default_url"`

	modelsPath string
}

// BackendStatus reports whether a backend is reachable.
type BackendStatus struct {
	Connected bool   `json:"connected"`
	Backend   string `json:"backend"`
	URL       string `json:"url"`
	Error     string `json:"error,omitempty"`
}

// Model is a model advertised by a backend.
type Model struct {
	Name string `json:"name"`
	Size string `json:"size,omitempty"`
}

var backendCatalog = []BackendInfo{
	{ID: BackendOllama, Name: "Ollama", DefaultURL: "http://localhost:11434", modelsPath: "/api/tags"},
	{ID: BackendLMStudio, Name: "LM Studio", DefaultURL: "http://localhost:1234", modelsPath: "/v1/models"},
	{ID: BackendLocalAI, Name: "LocalAI", DefaultURL: "http://localhost:8080", modelsPath: "/v1/models"},
	{ID: BackendVLLM, Name: "vLLM", DefaultURL: "http://localhost:8000", modelsPath: "/v1/models"},
	{ID: BackendTextGenWebUI, Name: "text-generation-webui", DefaultURL: "http://localhost:5000", modelsPath: "/v1/models"},
}

// Backends returns the catalog of supported backends.
func Backends() []BackendInfo {
	catalog := make([]BackendInfo, len(backendCatalog))
	copy(catalog, backendCatalog)
	return catalog
}

// LookupBackend finds a backend by id.
func LookupBackend(id string) (BackendInfo, bool) {
	for _, info := range backendCatalog {
		if info.ID == id {
			return info, true
		}
	}
	return BackendInfo{}, false
}

var backendClient = &http.Client{Timeout: 5 * time.Second}

// CheckBackend probes a backend's models endpoint to verify connectivity.
func CheckBackend(ctx context.Context, backendID, baseURL string) BackendStatus {
	info, ok := LookupBackend(backendID)
	if !ok {
		return BackendStatus{Backend: backendID, Error: fmt.Sprintf("unknown backend %q", backendID)}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = info.DefaultURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	status := BackendStatus{Backend: backendID, URL: baseURL}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+info.modelsPath, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	resp, err := backendClient.Do(req)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return status
	}
	status.Connected = true
	return status
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	} `json:"models"`
}

type openAIModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListBackendModels lists the models a backend advertises. Ollama uses
// its native tags endpoint; every other backend is OpenAI-compatible.
func ListBackendModels(ctx context.Context, backendID, baseURL string) ([]Model, error) {
	info, ok := LookupBackend(backendID)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", backendID)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = info.DefaultURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+info.modelsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}
	resp, err := backendClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s models request failed: %w", backendID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s models request failed with status %d", backendID, resp.StatusCode)
	}

	if backendID == BackendOllama {
		var decoded ollamaTagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decode ollama tags: %w", err)
		}
		models := make([]Model, 0, len(decoded.Models))
		for _, m := range decoded.Models {
			models = append(models, Model{Name: m.Name, Size: formatModelSize(m.Size)})
		}
		return models, nil
	}

	var decoded openAIModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}
	models := make([]Model, 0, len(decoded.Data))
	for _, m := range decoded.Data {
		models = append(models, Model{Name: m.ID})
	}
	return models, nil
}

func formatModelSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	const gb = 1 << 30
	const mb = 1 << 20
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(mb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
