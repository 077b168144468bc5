package main

import (
	"fmt"

	"github.com/gurjar1/gpt-researcher/internal/answer"
	"github.com/gurjar1/gpt-researcher/internal/config"
	"github.com/gurjar1/gpt-researcher/internal/dispatch"
	"github.com/gurjar1/gpt-researcher/internal/llmapi"
	"github.com/gurjar1/gpt-researcher/internal/quota"
	pkgconfig "github.com/gurjar1/gpt-researcher/pkg/config"
	"github.com/gurjar1/gpt-researcher/pkg/llm"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
	"github.com/gurjar1/gpt-researcher/pkg/monitoring"
	"github.com/gurjar1/gpt-researcher/pkg/server"
	"github.com/gurjar1/gpt-researcher/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("researcher")
	pkgconfig.LoadEnv(logger)

	cfg := config.LoadConfig()

	var store quota.Store
	switch cfg.QuotaStore {
	case "redis":
		store = quota.NewRedisStore(cfg.QuotaRedisAddr, cfg.QuotaRedisKey)
	default:
		store = quota.NewFileStore(cfg.QuotaUsageFile)
	}
	ledger := quota.NewLedger(store, logger)
	ledger.Load()

	registry, err := dispatch.NewRegistry(dispatch.RegistryConfig{
		SearxURL:   cfg.SearxURL,
		TavilyKeys: cfg.TavilyKeys,
		BraveKeys:  cfg.BraveKeys,
		SerperKeys: cfg.SerperKeys,
		ExaKeys:    cfg.ExaKeys,
		LinkupKeys: cfg.LinkupKeys,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure search providers")
	}
	if registry.Len() == 0 {
		logger.Warn("No search providers configured, quick search will return no results")
	}
	dispatcher := dispatch.NewDispatcher(registry, ledger, logger)

	generator, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure LLM provider")
	}

	pipeline := answer.NewPipeline(dispatcher, generator, logger, cfg.HistoryMaxMessages, cfg.HistoryMaxChars)

	healthChecker := monitoring.NewHealthChecker("researcher", version.Version)
	healthChecker.AddCheck("configuration", monitoring.ConfigurationHealthCheck(map[string]string{
		"LLM_PROVIDER": cfg.LLM.Provider,
		"LLM_MODEL":    cfg.LLM.Model,
	}))
	healthChecker.AddCheck("search_providers", func() monitoring.CheckResult {
		if registry.Len() == 0 {
			return monitoring.CheckResult{Status: monitoring.StatusDegraded, Message: "no search providers configured"}
		}
		return monitoring.CheckResult{Status: monitoring.StatusHealthy, Message: fmt.Sprintf("%d providers configured", registry.Len())}
	})

	metricsCollector := monitoring.NewMetricsCollector("researcher", version.Version, version.GitCommit)

	router := server.SetupServiceRouter(logger, "researcher", healthChecker, metricsCollector)
	api := router.Group("/api")
	answer.NewHandler(pipeline, dispatcher, logger, cfg.NumResults).RegisterRoutes(api)
	llmapi.NewHandler(logger).RegisterRoutes(api)

	serverCfg := server.DefaultConfig("researcher", cfg.Port)
	if err := server.Start(serverCfg, router, logger); err != nil {
		logger.WithError(err).Fatal("Server exited with error")
	}
}
