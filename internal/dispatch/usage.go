package dispatch

// ProviderUsage describes one provider's consumption this month. Limit is
// nil and Remaining reports "unlimited" for providers without a quota.
type ProviderUsage struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Used      int         `json:"used"`
	Limit     *int        `json:"limit"`
	Remaining interface{} `json:"remaining"`
}

// UsageStats is the payload behind the usage endpoint.
type UsageStats struct {
	Month     string          `json:"month"`
	Providers []ProviderUsage `json:"providers"`
}

// Usage reports per-provider consumption for the current month.
func (d *Dispatcher) Usage() UsageStats {
	stats := UsageStats{Month: d.ledger.Month()}
	for _, prov := range d.registry.Providers() {
		usage := ProviderUsage{
			ID:   prov.ID,
			Type: prov.Kind,
			Used: d.ledger.Usage(prov.ID),
		}
		if prov.Unlimited() {
			usage.Remaining = "unlimited"
		} else {
			limit := prov.Limit
			usage.Limit = &limit
			usage.Remaining = limit - usage.Used
		}
		stats.Providers = append(stats.Providers, usage)
	}
	return stats
}
