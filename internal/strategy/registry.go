package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
)

// Registry manages the available strategies.
type Registry interface {
	Register(strategy Strategy) error
	Get(id types.StrategyID) (Strategy, error)
	List() []types.StrategyID
	Remove(id types.StrategyID) error
}

// RegistryV1 is a concurrency-safe Registry.
type RegistryV1 struct {
	strategies map[types.StrategyID]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return &RegistryV1{
		strategies: make(map[types.StrategyID]Strategy),
		mu:         sync.RWMutex{},
	}
}

// DefaultRegistry returns a registry holding every built-in strategy.
func DefaultRegistry() Registry {
	r := NewRegistry()

	for _, s := range []Strategy{
		NewMACross(),
		NewRSI(),
		NewMACD(),
		NewBollingerBreakout(),
		NewBollingerReversal(),
		NewKDCross(),
		NewWilliamsR(),
		NewPriceBreakout(),
		NewVolumeSpike(),
		NewTrailingStop(),
		NewFixedPeriod(),
	} {
		// built-in ids are unique
		_ = r.Register(s)
	}

	return r
}

// Register adds a strategy to the registry.
func (r *RegistryV1) Register(strategy Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strategy.ID()
	if _, exists := r.strategies[id]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", id)
	}

	r.strategies[id] = strategy

	return nil
}

// Get retrieves a strategy by id.
func (r *RegistryV1) Get(id types.StrategyID) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, exists := r.strategies[id]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", id)
	}

	return strategy, nil
}

// List returns the registered ids in sorted order.
func (r *RegistryV1) List() []types.StrategyID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]types.StrategyID, 0, len(r.strategies))
	for id := range r.strategies {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Remove removes a strategy from the registry.
func (r *RegistryV1) Remove(id types.StrategyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[id]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", id)
	}

	delete(r.strategies, id)

	return nil
}

// Binding pairs a strategy with the role and parameters it runs with.
type Binding struct {
	Role     Role
	Strategy Strategy
	Params   types.Params
}

// Bind resolves every strategy a configuration refers to. Short roles are
// bound only when shorting is enabled.
func Bind(r Registry, cfg types.StrategyConfig) (map[Role]Binding, error) {
	type ref struct {
		role   Role
		id     types.StrategyID
		params types.Params
	}

	refs := []ref{
		{RoleEntry, cfg.EntryStrategy, cfg.EntryParams},
		{RoleExit, cfg.ExitStrategy, cfg.ExitParams},
	}

	if cfg.EnableShorting {
		refs = append(refs,
			ref{RoleShortEntry, cfg.ShortEntryStrategy, cfg.ShortEntryParams},
			ref{RoleShortExit, cfg.ShortExitStrategy, cfg.ShortExitParams},
		)
	}

	out := make(map[Role]Binding, len(refs))

	for _, rf := range refs {
		s, err := r.Get(rf.id)
		if err != nil {
			return nil, err
		}

		if !Supports(s, rf.role) {
			return nil, errors.Newf(errors.ErrCodeUnsupportedRole, "strategy %s cannot be used as %s", rf.id, rf.role)
		}

		out[rf.role] = Binding{Role: rf.role, Strategy: s, Params: rf.params}
	}

	return out, nil
}

// Lookback returns the longest lookback among bindings.
func Lookback(bindings map[Role]Binding) int {
	longest := 0

	for _, b := range bindings {
		if l := b.Strategy.Lookback(b.Params); l > longest {
			longest = l
		}
	}

	return longest
}
