// Package strategy evaluates entry and exit rules against indicator series.
//
// Each rule set is a Strategy registered under a types.StrategyID. A strategy
// declares the roles it can play (long entry, long exit, short entry, short
// exit), the numeric parameters it reads, and the lookback it needs before its
// first signal can be trusted.
package strategy

import (
	"github.com/rxtech-lab/argo-walkforward/internal/indicator"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
)

// Role is the part a strategy plays in a configuration.
type Role string

const (
	RoleEntry      Role = "entry"
	RoleExit       Role = "exit"
	RoleShortEntry Role = "shortEntry"
	RoleShortExit  Role = "shortExit"
)

// AllRoles lists every role in evaluation order.
var AllRoles = []Role{RoleEntry, RoleExit, RoleShortEntry, RoleShortExit}

// Position describes the open position of the book a rule is evaluated for.
type Position struct {
	Holding    bool
	Book       types.Book
	EntryIndex int
	EntryPrice float64
	// Peak and Trough are the highest and lowest closes since entry, inclusive.
	Peak   float64
	Trough float64
}

// EvalContext is everything a rule may look at for one bar.
type EvalContext struct {
	Cache    *indicator.Cache
	Index    int
	Params   types.Params
	Position Position
}

// Decision is the outcome of one rule on one bar. Snapshot holds the values
// the rule compared, for audit.
type Decision struct {
	Fire     bool
	Snapshot map[string]float64
}

// Strategy is a tagged rule set.
type Strategy interface {
	// ID returns the registry key.
	ID() types.StrategyID
	// Roles lists the roles the strategy supports.
	Roles() []Role
	// Params declares the parameters the strategy reads.
	Params() []ParamSpec
	// Lookback is the longest indicator period implied by params.
	Lookback(params types.Params) int
	// Evaluate decides whether the rule fires on ctx.Index. Unsupported roles
	// and invalid parameters never fire.
	Evaluate(role Role, ctx EvalContext) Decision
}

type rule func(ctx EvalContext, p resolved) Decision

// tagged is the shared Strategy implementation. Concrete strategies are
// constructed as tagged values with their own rules.
type tagged struct {
	id       types.StrategyID
	specs    []ParamSpec
	rules    map[Role]rule
	lookback func(p resolved) int
}

func (t *tagged) ID() types.StrategyID {
	return t.id
}

func (t *tagged) Roles() []Role {
	roles := make([]Role, 0, len(t.rules))

	for _, r := range AllRoles {
		if _, ok := t.rules[r]; ok {
			roles = append(roles, r)
		}
	}

	return roles
}

func (t *tagged) Params() []ParamSpec {
	out := make([]ParamSpec, len(t.specs))
	copy(out, t.specs)

	return out
}

func (t *tagged) Lookback(params types.Params) int {
	if t.lookback == nil {
		return 0
	}

	p, err := Resolve(t.specs, params)
	if err != nil {
		p = defaults(t.specs)
	}

	return t.lookback(p)
}

func (t *tagged) Evaluate(role Role, ctx EvalContext) Decision {
	fn, ok := t.rules[role]
	if !ok || ctx.Cache == nil {
		return Decision{}
	}

	p, err := Resolve(t.specs, ctx.Params)
	if err != nil {
		return Decision{}
	}

	return fn(ctx, p)
}

// Supports reports whether s can play role.
func Supports(s Strategy, role Role) bool {
	for _, r := range s.Roles() {
		if r == role {
			return true
		}
	}

	return false
}

func fired(ok bool, snapshot map[string]float64) Decision {
	if !ok {
		return Decision{}
	}

	return Decision{Fire: true, Snapshot: snapshot}
}
