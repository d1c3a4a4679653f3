package strategy

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// NewTrailingStop exits when the close retraces percent from the best close
// since entry. It only has exit roles.
func NewTrailingStop() Strategy {
	long := func(ctx EvalContext, p resolved) Decision {
		pos := ctx.Position
		cur, ok := ctx.Cache.Closes().At(ctx.Index)

		if !ok || !pos.Holding || pos.Peak <= 0 {
			return Decision{}
		}

		stop := pos.Peak * (1 - p["percent"]/100)

		return fired(cur <= stop, snapshot("close", cur, "peak", pos.Peak, "stop", stop))
	}

	short := func(ctx EvalContext, p resolved) Decision {
		pos := ctx.Position
		cur, ok := ctx.Cache.Closes().At(ctx.Index)

		if !ok || !pos.Holding || pos.Trough <= 0 {
			return Decision{}
		}

		stop := pos.Trough * (1 + p["percent"]/100)

		return fired(cur >= stop, snapshot("close", cur, "trough", pos.Trough, "stop", stop))
	}

	return &tagged{
		id:    types.StrategyTrailingStop,
		specs: []ParamSpec{level("percent", 5, 2, 20, 0.1, 99)},
		rules: map[Role]rule{
			RoleExit:      long,
			RoleShortExit: short,
		},
	}
}

// NewFixedPeriod exits after holding for a number of bars.
func NewFixedPeriod() Strategy {
	hold := func(ctx EvalContext, p resolved) Decision {
		pos := ctx.Position
		if !pos.Holding {
			return Decision{}
		}

		held := ctx.Index - pos.EntryIndex

		return fired(held >= p.intOf("bars"), snapshot("held", held))
	}

	return &tagged{
		id:    types.StrategyFixedPeriod,
		specs: []ParamSpec{period("bars", 10, 3, 60)},
		rules: map[Role]rule{
			RoleExit:      hold,
			RoleShortExit: hold,
		},
	}
}
