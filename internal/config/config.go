package config

import (
	"github.com/gurjar1/gpt-researcher/pkg/config"
	"github.com/gurjar1/gpt-researcher/pkg/llm"
)

// Config stores environment configuration for the research service.
type Config struct {
	Port string

	// Search provider credentials. Each comma-separated key becomes one
	// independently quota-tracked provider.
	SearxURL   string
	TavilyKeys []string
	BraveKeys  []string
	SerperKeys []string
	ExaKeys    []string
	LinkupKeys []string

	NumResults         int
	HistoryMaxMessages int
	HistoryMaxChars    int

	QuotaStore     string
	QuotaUsageFile string
	QuotaRedisAddr string
	QuotaRedisKey  string

	LLM llm.Config
}

// LoadConfig loads the service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port: config.GetEnv("PORT", "8000"),

		SearxURL:   config.GetEnv("SEARX_URL", ""),
		TavilyKeys: config.GetEnvList("TAVILY_API_KEYS"),
		BraveKeys:  config.GetEnvList("BRAVE_API_KEYS"),
		SerperKeys: config.GetEnvList("SERPER_API_KEYS"),
		ExaKeys:    config.GetEnvList("EXA_API_KEYS"),
		LinkupKeys: config.GetEnvList("LINKUP_API_KEYS"),

		NumResults:         config.GetEnvInt("SEARCH_NUM_RESULTS", 5),
		HistoryMaxMessages: config.GetEnvInt("HISTORY_MAX_MESSAGES", 6),
		HistoryMaxChars:    config.GetEnvInt("HISTORY_MAX_CHARS", 500),

		QuotaStore:     config.GetEnv("QUOTA_STORE", "file"),
		QuotaUsageFile: config.GetEnv("QUOTA_USAGE_FILE", "search_usage.json"),
		QuotaRedisAddr: config.GetEnv("QUOTA_REDIS_ADDR", "localhost:6379"),
		QuotaRedisKey:  config.GetEnv("QUOTA_REDIS_KEY", "research:search_usage"),

		LLM: llm.LoadConfig(),
	}
}
