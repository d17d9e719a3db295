package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownStrategy is returned when resolving an unregistered
// identifier. Surfaced to the caller before any trial runs.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Factory constructs a fresh Strategy value. Strategies are stateless,
// so factories mostly exist to keep registration uniform.
type Factory func() Strategy

// Registry is the catalog of strategies selectable by identifier.
// Adding a strategy means registering a new factory; nothing else in the
// system changes.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under id, replacing any previous registration.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = f
}

// Resolve returns the strategy registered under id.
func (r *Registry) Resolve(id string) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
	}
	return f(), nil
}

// IDs lists registered identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry registers every built-in strategy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("avalanche", NewAvalanche)
	r.Register("snowball", NewSnowball)
	r.Register("minimum_only", NewMinimumOnly)
	r.Register("steady_contribution", NewSteadyContribution)
	r.Register("income_driven", NewIncomeDriven)
	r.Register("withdrawal_sequence", NewWithdrawalSequence)
	r.Register("refinance_check", NewRefinanceCheck)
	// Composition order: refinance recomputes the rate before the
	// income-driven recertification sees it in the same period.
	r.Register("income_driven_refinance", func() Strategy {
		return NewChain("income_driven_refinance", NewRefinanceCheck(), NewIncomeDriven())
	})
	return r
}
