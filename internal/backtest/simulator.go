package backtest

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-walkforward/internal/metrics"
	"github.com/rxtech-lab/argo-walkforward/internal/strategy"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validate = validator.New()

// Simulate replays cfg over the bars inside r and returns a fresh result. Bars
// before r.Start only warm up indicators. Problems with the data or the
// configuration are reported on the result, never returned or panicked.
func (s *Session) Simulate(cfg types.StrategyConfig, r types.DateRange) (result types.SimulationResult) {
	if r.IsZero() {
		r = s.Span()
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Simulation panicked", zap.Any("panic", rec))
			result = failedResult(r, errors.Newf(errors.ErrCodeStrategyRuntimeError, "simulation panicked: %v", rec))
		}
	}()

	if err := validate.Struct(cfg); err != nil {
		return failedResult(r, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy configuration", err))
	}

	bindings, err := strategy.Bind(s.registry, cfg)
	if err != nil {
		return failedResult(r, err)
	}

	lo, hi, ok := s.indexRange(r)
	if !ok {
		return failedResult(r, errors.NewInsufficientDataError(1, 0, "no bars inside the requested range"))
	}

	lookback := strategy.Lookback(bindings)
	if hi+1 < lookback+1 {
		return failedResult(r, errors.NewInsufficientDataErrorf(lookback+1, hi+1,
			"need %d bars for the longest lookback, have %d", lookback+1, hi+1))
	}

	sim := newReplay(s, cfg.Clone(), bindings)
	sim.run(lo, hi)

	result = s.summarize(cfg, r, sim, lo, hi)

	s.logger.Debug("Simulation finished",
		zap.Time("start", r.Start),
		zap.Time("end", r.End),
		zap.Int("bars", hi-lo+1),
		zap.Int("trades", result.TradesCount),
		zap.Float64("annualized_return", result.AnnualizedReturn.Float()),
	)

	return result
}

func (s *Session) summarize(cfg types.StrategyConfig, r types.DateRange, sim *replay, lo, hi int) types.SimulationResult {
	closes := s.cache.Closes()[lo : hi+1]
	years := r.Years()

	result := types.SimulationResult{
		Range:             r,
		Dates:             sim.dates,
		EquityCurve:       sim.equity,
		StrategyReturnPct: make([]float64, len(sim.equity)),
		BuyHoldReturnPct:  types.NewSeries(len(closes)),
		DailyReturns:      metrics.DailyReturns(sim.equity),
		Trades:            sim.trades,
		CompletedTrades:   PairTrades(sim.trades),
	}

	for i, v := range sim.equity {
		result.StrategyReturnPct[i] = (v/cfg.InitialCapital - 1) * 100
	}

	first := math.NaN()

	for i := range closes {
		c, ok := closes.At(i)
		if !ok {
			continue
		}

		if math.IsNaN(first) {
			first = c
		}

		result.BuyHoldReturnPct.Set(i, (c/first-1)*100)
	}

	annualized := metrics.AnnualizedReturn(cfg.InitialCapital, result.FinalEquity(cfg.InitialCapital), years)

	result.AnnualizedReturn = types.Number(annualized)
	result.BuyHoldAnnualizedReturn = metrics.BuyHoldAnnualizedReturn(closes, years)
	result.MaxDrawdownPct = types.Number(metrics.MaxDrawdownPct(sim.equity))
	result.SharpeRatio = types.Number(metrics.Sharpe(annualized, result.DailyReturns, s.metrics))
	result.SortinoRatio = types.Number(metrics.Sortino(annualized, result.DailyReturns, s.metrics))
	result.WinRatePct = types.Number(metrics.WinRatePct(result.CompletedTrades))
	result.TradesCount = len(result.CompletedTrades)
	result.MaxConsecutiveLosses = metrics.MaxConsecutiveLosses(result.CompletedTrades)
	result.HalfPeriod = metrics.HalfPeriodRatios(sim.dates, sim.equity, s.metrics)

	return result
}

// failedResult is the zeroed result carrying err.
func failedResult(r types.DateRange, err error) types.SimulationResult {
	return types.SimulationResult{
		Range:            r,
		Dates:            []time.Time{},
		EquityCurve:      []float64{},
		BuyHoldReturnPct: types.Series{},
		DailyReturns:     []float64{},
		Insufficient:     errors.IsInsufficientDataError(err),
		Error:            err.Error(),
		ErrorCode:        int(errors.GetCode(err)),
	}
}

// position is one side of the book.
type position struct {
	shares     float64
	entryPrice float64
	entryIndex int
	peak       float64
	trough     float64
}

func (p *position) holding() bool {
	return p.shares > 0
}

type order struct {
	kind       types.TradeKind
	source     string
	stopLoss   bool
	takeProfit bool
	snapshot   map[string]float64
}

// replay is the mutable state of one Simulate call.
type replay struct {
	s        *Session
	cfg      types.StrategyConfig
	bindings map[strategy.Role]strategy.Binding
	fees     FeeModel

	cash        decimal.Decimal
	long, short position
	pending     *order
	lastClose   float64
	prevEquity  float64

	dates  []time.Time
	equity []float64
	trades []types.TradeRecord
}

func newReplay(s *Session, cfg types.StrategyConfig, bindings map[strategy.Role]strategy.Binding) *replay {
	return &replay{
		s:          s,
		cfg:        cfg,
		bindings:   bindings,
		fees:       NewFeeModel(cfg.BuyFeePct, cfg.SellFeePct),
		cash:       decimal.NewFromFloat(cfg.InitialCapital),
		prevEquity: cfg.InitialCapital,
	}
}

func (r *replay) run(lo, hi int) {
	bars := r.s.bars
	closes := r.s.cache.Closes()

	r.dates = make([]time.Time, 0, hi-lo+1)
	r.equity = make([]float64, 0, hi-lo+1)

	for i := lo; i <= hi; i++ {
		last := i == hi

		if r.pending != nil {
			r.fill(i)
		}

		if c, ok := closes.At(i); ok {
			r.lastClose = c
			r.track(c)
			r.checkExit(i, c, last)

			if !last {
				r.checkEntry(i, c)
			}
		}

		if last {
			r.forceClose(i)
		}

		eq := r.markToMarket()
		r.dates = append(r.dates, bars[i].Date)
		r.equity = append(r.equity, eq)
		r.prevEquity = eq
	}
}

// fill executes a pending next-open order at the bar's open, or its close when
// the open is unusable. Gap bars keep the order pending.
func (r *replay) fill(i int) {
	bar := r.s.bars[i]
	if !bar.Valid() {
		return
	}

	price := bar.Open
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		price = bar.Close
	}

	o := r.pending
	r.pending = nil
	r.execute(*o, i, price)
}

func (r *replay) track(c float64) {
	for _, p := range []*position{&r.long, &r.short} {
		if !p.holding() {
			continue
		}

		p.peak = math.Max(p.peak, c)
		p.trough = math.Min(p.trough, c)
	}
}

func (r *replay) evaluate(role strategy.Role, i int, p position, book types.Book) strategy.Decision {
	b, ok := r.bindings[role]
	if !ok {
		return strategy.Decision{}
	}

	return b.Strategy.Evaluate(role, strategy.EvalContext{
		Cache:  r.s.cache,
		Index:  i,
		Params: b.Params,
		Position: strategy.Position{
			Holding:    p.holding(),
			Book:       book,
			EntryIndex: p.entryIndex,
			EntryPrice: p.entryPrice,
			Peak:       p.peak,
			Trough:     p.trough,
		},
	})
}

func (r *replay) checkExit(i int, c float64, last bool) {
	if r.pending != nil {
		return
	}

	var (
		o     order
		fires bool
	)

	switch {
	case r.long.holding():
		d := r.evaluate(strategy.RoleExit, i, r.long, types.BookLong)
		o = order{kind: types.TradeKindSell, source: string(r.cfg.ExitStrategy), snapshot: d.Snapshot}
		o.stopLoss = r.cfg.StopLossPct > 0 && c <= r.long.entryPrice*(1-r.cfg.StopLossPct/100)
		o.takeProfit = r.cfg.TakeProfitPct > 0 && c >= r.long.entryPrice*(1+r.cfg.TakeProfitPct/100)
		fires = d.Fire
	case r.short.holding():
		d := r.evaluate(strategy.RoleShortExit, i, r.short, types.BookShort)
		o = order{kind: types.TradeKindCover, source: string(r.cfg.ShortExitStrategy), snapshot: d.Snapshot}
		o.stopLoss = r.cfg.StopLossPct > 0 && c >= r.short.entryPrice*(1+r.cfg.StopLossPct/100)
		o.takeProfit = r.cfg.TakeProfitPct > 0 && c <= r.short.entryPrice*(1-r.cfg.TakeProfitPct/100)
		fires = d.Fire
	default:
		return
	}

	switch {
	case o.stopLoss:
		o.takeProfit = false
		o.source = types.SourceStopLoss
	case o.takeProfit:
		o.source = types.SourceTakeProfit
	case !fires:
		return
	}

	r.submit(o, i, c, last)
}

func (r *replay) checkEntry(i int, c float64) {
	if r.pending != nil || r.long.holding() || r.short.holding() {
		return
	}

	if d := r.evaluate(strategy.RoleEntry, i, r.long, types.BookLong); d.Fire {
		r.submit(order{kind: types.TradeKindBuy, source: string(r.cfg.EntryStrategy), snapshot: d.Snapshot}, i, c, false)

		return
	}

	if !r.cfg.EnableShorting {
		return
	}

	if d := r.evaluate(strategy.RoleShortEntry, i, r.short, types.BookShort); d.Fire {
		r.submit(order{kind: types.TradeKindShort, source: string(r.cfg.ShortEntryStrategy), snapshot: d.Snapshot}, i, c, false)
	}
}

// submit executes o now at the close, or queues it for the next open.
func (r *replay) submit(o order, i int, c float64, last bool) {
	if r.cfg.TradeTiming == types.TradeTimingNextOpen && !last {
		r.pending = &o

		return
	}

	r.execute(o, i, c)
}

func (r *replay) forceClose(i int) {
	r.pending = nil

	if r.long.holding() {
		r.execute(order{kind: types.TradeKindSell, source: types.SourceEndOfPeriod}, i, r.lastClose)
	}

	if r.short.holding() {
		r.execute(order{kind: types.TradeKindCover, source: types.SourceEndOfPeriod}, i, r.lastClose)
	}
}

// shares sizes a new position at price. Both books use the same rule.
func (r *replay) shares(price float64) float64 {
	base := r.cfg.InitialCapital
	if r.cfg.PositionBasis == types.PositionBasisRollingCapital {
		base = r.prevEquity
	}

	investable := math.Min(r.cash.InexactFloat64(), base*r.cfg.PositionSizePct/100)
	unit := r.fees.UnitCost(price)

	if investable <= 0 || unit <= 0 {
		return 0
	}

	return math.Floor(investable / unit)
}

func (r *replay) execute(o order, i int, price float64) {
	if price <= 0 {
		return
	}

	record := types.TradeRecord{
		Kind:                  o.kind,
		Date:                  r.s.bars[i].Date,
		Price:                 price,
		TriggeredByStopLoss:   o.stopLoss,
		TriggeredByTakeProfit: o.takeProfit,
		StrategySource:        o.source,
		Snapshot:              o.snapshot,
	}

	switch o.kind {
	case types.TradeKindBuy, types.TradeKindShort:
		shares := r.shares(price)
		if shares <= 0 {
			return
		}

		record.Shares = shares
		opened := position{shares: shares, entryPrice: price, entryIndex: i, peak: price, trough: price}

		if o.kind == types.TradeKindBuy {
			value := r.fees.BuyCost(shares, price)
			r.cash = r.cash.Sub(value)
			record.FeeAdjustedValue = value.InexactFloat64()
			r.long = opened
		} else {
			value := r.fees.SellProceeds(shares, price)
			r.cash = r.cash.Add(value)
			record.FeeAdjustedValue = value.InexactFloat64()
			r.short = opened
		}
	case types.TradeKindSell:
		value := r.fees.SellProceeds(r.long.shares, price)
		r.cash = r.cash.Add(value)
		record.Shares = r.long.shares
		record.FeeAdjustedValue = value.InexactFloat64()
		r.long = position{}
	case types.TradeKindCover:
		value := r.fees.BuyCost(r.short.shares, price)
		r.cash = r.cash.Sub(value)
		record.Shares = r.short.shares
		record.FeeAdjustedValue = value.InexactFloat64()
		r.short = position{}
	}

	r.trades = append(r.trades, record)
}

func (r *replay) markToMarket() float64 {
	return r.cash.InexactFloat64() + (r.long.shares-r.short.shares)*r.lastClose
}
