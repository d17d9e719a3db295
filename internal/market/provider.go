// Package market caches external market and interest-rate figures with a
// TTL and graceful fallback. It is the only shared mutable state in the
// simulation core; everything else reads immutable snapshots.
package market

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// Well-known rate symbols.
const (
	SymbolSavingsRate = "savings_rate"
	SymbolBorrowRate  = "borrow_rate"
	SymbolStockReturn = "stock_return"
	SymbolBondReturn  = "bond_return"
)

// ReturnMeanSymbol is the feed symbol for a posture's per-period mean
// return.
func ReturnMeanSymbol(p model.RiskPosture) string { return "return_mu_" + string(p) }

// ReturnStdDevSymbol is the feed symbol for a posture's per-period
// return volatility.
func ReturnStdDevSymbol(p model.RiskPosture) string { return "return_sigma_" + string(p) }

// DefaultTTL is how long a fetched rate is considered fresh.
const DefaultTTL = time.Hour

// RateSource fetches one rate from an external feed. Implementations
// are expected to be unreliable; the provider absorbs their failures.
type RateSource interface {
	Fetch(ctx context.Context, symbol string) (float64, error)
}

// Point is one cached rate as seen by a consumer.
type Point struct {
	Symbol    string    `json:"symbol"`
	Value     float64   `json:"value"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Stale     bool      `json:"stale"`
}

type entry struct {
	value     float64
	fetchedAt time.Time
}

// Provider is a thread-safe TTL cache of rates keyed by symbol.
//
// Reads of a fresh entry take only an RLock. An expired or missing entry
// triggers a refresh; concurrent refreshes for the same symbol collapse
// into one in-flight call (the second requester waits on the first).
// A failed refresh serves the last good value, stale; a symbol that has
// never been fetched serves its configured default, stale.
type Provider struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl      time.Duration
	source   RateSource
	defaults map[string]float64
	group    singleflight.Group
}

// NewProvider builds a provider. A nil source disables refreshes
// entirely: every read serves the default, stale. defaults come from the
// configuration store, never from literals.
func NewProvider(source RateSource, defaults map[string]float64, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	d := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &Provider{
		entries:  make(map[string]entry),
		ttl:      ttl,
		source:   source,
		defaults: d,
	}
}

// Rate returns the current value for symbol and whether it is stale.
// It never fails: transient feed errors degrade to the last good value
// or the configured default (0 if the symbol has no default).
func (p *Provider) Rate(ctx context.Context, symbol string) (float64, bool) {
	p.mu.RLock()
	e, ok := p.entries[symbol]
	fresh := ok && time.Since(e.fetchedAt) < p.ttl
	p.mu.RUnlock()
	if fresh {
		return e.value, false
	}
	if p.source == nil {
		return p.fallback(symbol)
	}

	v, err, _ := p.group.Do(symbol, func() (any, error) {
		// A waiter that queued behind the winning call finds a fresh
		// entry here and skips the external hop.
		p.mu.RLock()
		e, ok := p.entries[symbol]
		p.mu.RUnlock()
		if ok && time.Since(e.fetchedAt) < p.ttl {
			return e.value, nil
		}
		value, err := p.source.Fetch(ctx, symbol)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.entries[symbol] = entry{value: value, fetchedAt: time.Now()}
		p.mu.Unlock()
		return value, nil
	})
	if err != nil {
		log.Printf("[Market] refresh %s failed, serving fallback: %v", symbol, err)
		return p.fallback(symbol)
	}
	return v.(float64), false
}

// Point returns the full cached view of a symbol, refreshing as Rate
// does.
func (p *Provider) Point(ctx context.Context, symbol string) Point {
	value, stale := p.Rate(ctx, symbol)
	p.mu.RLock()
	e, ok := p.entries[symbol]
	p.mu.RUnlock()
	pt := Point{Symbol: symbol, Value: value, Stale: stale}
	if ok {
		pt.FetchedAt = e.fetchedAt
	}
	return pt
}

// fallback serves the last good value if one exists, otherwise the
// configured default. Always stale.
func (p *Provider) fallback(symbol string) (float64, bool) {
	p.mu.RLock()
	e, ok := p.entries[symbol]
	p.mu.RUnlock()
	if ok {
		return e.value, true
	}
	return p.defaults[symbol], true
}
