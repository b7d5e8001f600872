package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/holding"
	"argus/internal/domain/rule"
	"argus/internal/services/marketdata"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// rsiPeriod is the lookback for RSI-based rules
const rsiPeriod = 14

// MarketData is the slice of the market data layer the engine reads
type MarketData interface {
	GetPrices(ctx context.Context, symbols []string) map[string]float64
	GetRSI(ctx context.Context, symbol string, period int) (float64, error)
}

// EvaluationResult is an immutable snapshot of one triggered (rule, symbol)
// pair at evaluation time.
type EvaluationResult struct {
	Rule      *rule.Rule
	Symbol    string
	Reason    string
	Price     float64
	CostBasis float64
	Threshold float64
	HoldingID *uuid.UUID
	RSI       *float64
}

// Options tune a single evaluation pass
type Options struct {
	// IgnoreCooldown evaluates rules even inside their cooldown window,
	// used for manual and test runs
	IgnoreCooldown bool
}

// Engine joins enabled rules against current holdings and market data
type Engine struct {
	holdings holding.Repository
	rules    rule.Repository
	market   MarketData
	registry *Registry
	now      func() time.Time
	log      *logger.Logger
}

// NewEngine creates a new rule engine
func NewEngine(
	holdings holding.Repository,
	rules rule.Repository,
	market MarketData,
	log *logger.Logger,
) *Engine {
	return &Engine{
		holdings: holdings,
		rules:    rules,
		market:   market,
		registry: NewRegistry(),
		now:      time.Now,
		log:      log.With("component", "rule_engine"),
	}
}

// EvaluateAll runs every enabled rule for the user against their holdings.
// A rule or symbol missing its market data is skipped for this pass, not an
// error. Results come back in evaluation order.
func (e *Engine) EvaluateAll(ctx context.Context, userID uuid.UUID, opts Options) ([]*EvaluationResult, error) {
	holdings, err := e.holdings.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list holdings")
	}
	if len(holdings) == 0 {
		return nil, nil
	}

	enabled, err := e.rules.ListEnabledByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list enabled rules")
	}
	if len(enabled) == 0 {
		return nil, nil
	}

	// First lot per symbol decides the cost basis; later lots of the same
	// symbol are not averaged in.
	firstLot := make(map[string]*holding.Holding, len(holdings))
	heldSymbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		key := marketdata.CacheKey(h.Symbol)
		if _, ok := firstLot[key]; ok {
			continue
		}
		firstLot[key] = h
		heldSymbols = append(heldSymbols, key)
	}

	now := e.now()

	active := make([]*rule.Rule, 0, len(enabled))
	for _, r := range enabled {
		if !opts.IgnoreCooldown && r.InCooldown(now) {
			e.log.Debugw("Rule in cooldown, skipping",
				"rule", r.Name, "last_triggered_at", r.LastTriggeredAt)
			continue
		}
		active = append(active, r)
	}
	if len(active) == 0 {
		return nil, nil
	}

	prices := e.market.GetPrices(ctx, e.targetSymbols(active, firstLot, heldSymbols))

	var results []*EvaluationResult
	for _, r := range active {
		ev, err := e.registry.Lookup(r.RuleType)
		if err != nil {
			e.log.Warnw("Skipping rule with unknown type", "rule", r.Name, "type", r.RuleType)
			continue
		}

		for _, symbol := range e.ruleTargets(r, heldSymbols) {
			h, held := firstLot[symbol]
			if !held {
				continue
			}
			price, ok := prices[symbol]
			if !ok {
				e.log.Debugw("No fresh price, skipping", "rule", r.Name, "symbol", symbol)
				continue
			}

			in := Input{
				Price:     price,
				CostBasis: h.CostBasisValue(),
				Threshold: r.Threshold,
			}

			if r.RuleType.RequiresIndicator() {
				rsi, err := e.market.GetRSI(ctx, symbol, rsiPeriod)
				if err != nil {
					e.log.Debugw("No RSI, skipping", "rule", r.Name, "symbol", symbol, "error", err)
					continue
				}
				in.Indicator = &rsi
			}

			if !ev.Evaluate(in) {
				continue
			}

			holdingID := h.ID
			results = append(results, &EvaluationResult{
				Rule:      r,
				Symbol:    symbol,
				Reason:    ev.Reason(in),
				Price:     price,
				CostBasis: in.CostBasis,
				Threshold: r.Threshold,
				HoldingID: &holdingID,
				RSI:       in.Indicator,
			})
		}
	}

	return results, nil
}

// ruleTargets returns the symbols a rule applies to: its own scope, or every
// held symbol when unscoped.
func (e *Engine) ruleTargets(r *rule.Rule, heldSymbols []string) []string {
	if r.Symbol != nil && *r.Symbol != "" {
		return []string{marketdata.CacheKey(*r.Symbol)}
	}
	return heldSymbols
}

// targetSymbols collects the held symbols referenced by at least one active
// rule so prices can be batch-fetched once.
func (e *Engine) targetSymbols(active []*rule.Rule, firstLot map[string]*holding.Holding, heldSymbols []string) []string {
	needed := make(map[string]struct{})
	for _, r := range active {
		for _, symbol := range e.ruleTargets(r, heldSymbols) {
			if _, held := firstLot[symbol]; held {
				needed[symbol] = struct{}{}
			}
		}
	}

	symbols := make([]string, 0, len(needed))
	for _, symbol := range heldSymbols {
		if _, ok := needed[symbol]; ok {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
