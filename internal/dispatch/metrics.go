package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_dispatch_total",
		Help: "Search dispatches by provider and outcome",
	}, []string{"provider", "outcome"})

	quotaSkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_quota_skips_total",
		Help: "Rotation slots skipped because the provider's monthly quota is spent",
	}, []string{"provider"})

	fallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_fallback_total",
		Help: "Fallback resolutions after a provider failure, by stage",
	}, []string{"stage"})
)
