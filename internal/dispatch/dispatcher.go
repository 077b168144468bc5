package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/gurjar1/gpt-researcher/internal/quota"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
	"github.com/gurjar1/gpt-researcher/pkg/search"
)

// ErrNoProvider signals that every configured backend is over quota and no
// unlimited backend exists to absorb the request.
var ErrNoProvider = errors.New("no search provider available")

// Outcome reports which provider answered a dispatch and what it returned.
type Outcome struct {
	Provider *Provider
	Results  []search.Result
}

// Dispatcher rotates requests across the registry, skipping providers whose
// monthly quota is spent and falling back to alternatives on failure.
type Dispatcher struct {
	mu       sync.Mutex
	cursor   int
	registry *Registry
	ledger   *quota.Ledger
	logger   logging.Logger
}

func NewDispatcher(registry *Registry, ledger *quota.Ledger, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		ledger:   ledger,
		logger:   logger,
	}
}

// Search runs a query against the provider rotation.
//
// Filtered focus modes (reddit, news, shopping) are routed to the
// filter-capable backend first, without advancing the rotation cursor, so
// mode-specific traffic never skews the round-robin. The cursor only moves
// when the rotation itself is consulted.
//
// A provider failure triggers the fallback chain. Exhausting every avenue
// yields an empty result set rather than an error; the caller decides how
// to surface the absence of sources.
func (d *Dispatcher) Search(ctx context.Context, query string, limit int, focusMode string) (Outcome, error) {
	opts := search.SearchOptions{Limit: limit, FocusMode: focusMode}

	if filteredMode(focusMode) {
		if fp := d.registry.FilterCapable(); fp != nil {
			results, err := fp.Client.Search(ctx, query, opts)
			if err == nil && len(results) > 0 {
				dispatchTotal.WithLabelValues(fp.ID, "success").Inc()
				return Outcome{Provider: fp, Results: results}, nil
			}
			if err != nil {
				if ctx.Err() != nil {
					return Outcome{}, ctx.Err()
				}
				dispatchTotal.WithLabelValues(fp.ID, "error").Inc()
				d.logger.WithError(err).WithField("provider", fp.ID).Warn("Filtered search failed, falling back to rotation")
			}
		}
	}

	prov, err := d.selectNext()
	if err != nil {
		d.logger.WithField("query_focus", focusMode).Warn("All search providers exhausted")
		return Outcome{}, nil
	}

	results, err := prov.Client.Search(ctx, query, opts)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		dispatchTotal.WithLabelValues(prov.ID, "error").Inc()
		d.logger.WithError(err).WithField("provider", prov.ID).Warn("Search provider failed, trying fallbacks")
		return d.fallback(ctx, prov, query, opts)
	}

	if len(results) == 0 {
		// An empty answer is still an answer. Only hard failures
		// trigger the fallback chain.
		dispatchTotal.WithLabelValues(prov.ID, "empty").Inc()
		return Outcome{Provider: prov, Results: nil}, nil
	}

	dispatchTotal.WithLabelValues(prov.ID, "success").Inc()
	if !prov.Unlimited() {
		d.ledger.RecordUse(prov.ID)
	}
	return Outcome{Provider: prov, Results: results}, nil
}

// selectNext advances the rotation cursor to the next provider with quota
// remaining. When every limited provider is spent it settles on an
// unlimited one, and returns ErrNoProvider only when none exists.
func (d *Dispatcher) selectNext() (*Provider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.registry.Len()
	if n == 0 {
		return nil, ErrNoProvider
	}

	for i := 0; i < n; i++ {
		prov := d.registry.Providers()[d.cursor%n]
		d.cursor = (d.cursor + 1) % n
		if d.overQuota(prov) {
			quotaSkipsTotal.WithLabelValues(prov.ID).Inc()
			continue
		}
		return prov, nil
	}

	if prov := d.registry.Unlimited(); prov != nil {
		return prov, nil
	}
	return nil, ErrNoProvider
}

// fallback handles a mid-dispatch provider failure: retry on the
// filter-capable backend first, then walk the registry for any other
// eligible provider with quota left.
func (d *Dispatcher) fallback(ctx context.Context, failed *Provider, query string, opts search.SearchOptions) (Outcome, error) {
	if fp := d.registry.FilterCapable(); fp != nil && fp.ID != failed.ID {
		results, err := fp.Client.Search(ctx, query, opts)
		if err == nil {
			fallbackTotal.WithLabelValues("filter_retry").Inc()
			return Outcome{Provider: fp, Results: results}, nil
		}
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		d.logger.WithError(err).Warn("Fallback retry failed")
	}

	for _, prov := range d.registry.Providers() {
		if prov.ID == failed.ID || !fallbackEligible(prov.Kind) || d.overQuota(prov) {
			continue
		}
		results, err := prov.Client.Search(ctx, query, opts)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			d.logger.WithError(err).WithField("provider", prov.ID).Warn("Fallback provider failed")
			continue
		}
		fallbackTotal.WithLabelValues("scan").Inc()
		return Outcome{Provider: prov, Results: results}, nil
	}

	fallbackTotal.WithLabelValues("exhausted").Inc()
	return Outcome{Provider: failed, Results: nil}, nil
}

func (d *Dispatcher) overQuota(prov *Provider) bool {
	if prov.Unlimited() {
		return false
	}
	return d.ledger.Usage(prov.ID) >= prov.Limit
}

func filteredMode(focusMode string) bool {
	switch focusMode {
	case search.FocusReddit, search.FocusNews, search.FocusShopping:
		return true
	}
	return false
}
