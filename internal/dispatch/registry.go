package dispatch

import (
	"fmt"

	"github.com/gurjar1/gpt-researcher/pkg/search"
)

// Provider kinds. SearXNG and DuckDuckGo never serve as fallback targets
// after another provider fails mid-rotation.
const (
	KindSearxng = "searxng"
	KindTavily  = "tavily"
	KindBrave   = "brave"
	KindSerper  = "serper"
	KindExa     = "exa"
	KindLinkup  = "linkup"
	KindDDG     = "ddg"
)

// Monthly free-tier request allowances per API key.
const (
	tavilyMonthlyLimit = 1000
	braveMonthlyLimit  = 2000
	serperMonthlyLimit = 2500
	exaMonthlyLimit    = 1000
	linkupMonthlyLimit = 1000
)

// Provider is one configured search backend. A Limit of zero means the
// backend carries no monthly quota.
type Provider struct {
	ID     string
	Kind   string
	Limit  int
	Client search.Provider
}

// Unlimited reports whether the provider can be used without quota tracking.
func (p *Provider) Unlimited() bool {
	return p.Limit <= 0
}

// RegistryConfig lists the configured backends. Each API key in a list
// becomes its own provider with an independent quota.
type RegistryConfig struct {
	SearxURL   string
	TavilyKeys []string
	BraveKeys  []string
	SerperKeys []string
	ExaKeys    []string
	LinkupKeys []string
}

// Registry holds the configured providers in a fixed rotation order.
type Registry struct {
	providers []*Provider
}

// NewRegistry builds the provider set from configuration. SearXNG, when
// configured, always comes first so filtered searches find it cheaply.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	reg := &Registry{}

	if cfg.SearxURL != "" {
		client, err := search.NewSearxngProvider(cfg.SearxURL)
		if err != nil {
			return nil, fmt.Errorf("configure searxng: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     "searxng",
			Kind:   KindSearxng,
			Client: client,
		})
	}

	for i, key := range cfg.TavilyKeys {
		client, err := search.NewTavilyProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configure tavily: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     fmt.Sprintf("tavily_%d", i+1),
			Kind:   KindTavily,
			Limit:  tavilyMonthlyLimit,
			Client: client,
		})
	}
	for i, key := range cfg.BraveKeys {
		client, err := search.NewBraveProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configure brave: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     fmt.Sprintf("brave_%d", i+1),
			Kind:   KindBrave,
			Limit:  braveMonthlyLimit,
			Client: client,
		})
	}
	for i, key := range cfg.SerperKeys {
		client, err := search.NewSerperProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configure serper: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     fmt.Sprintf("serper_%d", i+1),
			Kind:   KindSerper,
			Limit:  serperMonthlyLimit,
			Client: client,
		})
	}
	for i, key := range cfg.ExaKeys {
		client, err := search.NewExaProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configure exa: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     fmt.Sprintf("exa_%d", i+1),
			Kind:   KindExa,
			Limit:  exaMonthlyLimit,
			Client: client,
		})
	}
	for i, key := range cfg.LinkupKeys {
		client, err := search.NewLinkupProvider(key, "")
		if err != nil {
			return nil, fmt.Errorf("configure linkup: %w", err)
		}
		reg.providers = append(reg.providers, &Provider{
			ID:     fmt.Sprintf("linkup_%d", i+1),
			Kind:   KindLinkup,
			Limit:  linkupMonthlyLimit,
			Client: client,
		})
	}

	return reg, nil
}

// NewRegistryFromProviders builds a registry from pre-constructed providers,
// keeping their order as the rotation order.
func NewRegistryFromProviders(providers []*Provider) *Registry {
	return &Registry{providers: providers}
}

// Providers returns the rotation in registration order.
func (r *Registry) Providers() []*Provider {
	return r.providers
}

// Len returns the number of configured providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// ByKind returns the first provider of a kind, or nil when none is
// configured.
func (r *Registry) ByKind(kind string) *Provider {
	for _, p := range r.providers {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Unlimited returns the first provider without a monthly quota, or nil when
// every configured provider is limited.
func (r *Registry) Unlimited() *Provider {
	for _, p := range r.providers {
		if p.Unlimited() {
			return p
		}
	}
	return nil
}

// FilterCapable returns the provider that honors engine and category
// filters, or nil when none is configured.
func (r *Registry) FilterCapable() *Provider {
	return r.ByKind(KindSearxng)
}

// fallbackEligible reports whether a provider kind may serve as a fallback
// target after another backend fails.
func fallbackEligible(kind string) bool {
	return kind != KindSearxng && kind != KindDDG
}
