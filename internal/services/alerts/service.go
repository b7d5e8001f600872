package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"argus/internal/adapters/ai"
	"argus/internal/domain/alert"
	"argus/internal/domain/rule"
	"argus/internal/services/notify"
	"argus/internal/services/rules"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// testRuleName is the hidden disabled rule that test alerts hang off so the
// alerts table keeps its rule reference intact
const testRuleName = "__test_rule__"

// RangeReader supplies the 52-week range for AI enrichment context
type RangeReader interface {
	Get52WeekRange(ctx context.Context, symbol string) (high, low float64, err error)
}

// Service turns triggered evaluation results into persisted, enriched and
// dispatched alerts. Alert persistence and the cooldown stamp always land
// before notification is attempted; a failed send never rolls them back.
type Service struct {
	alerts    alert.Repository
	rules     rule.Repository
	generator ai.ContextGenerator // nil disables enrichment
	ranges    RangeReader         // nil skips range context
	now       func() time.Time
	log       *logger.Logger
}

// NewService creates a new alert pipeline service
func NewService(
	alerts alert.Repository,
	rules rule.Repository,
	generator ai.ContextGenerator,
	ranges RangeReader,
	log *logger.Logger,
) *Service {
	return &Service{
		alerts:    alerts,
		rules:     rules,
		generator: generator,
		ranges:    ranges,
		now:       time.Now,
		log:       log.With("component", "alert_pipeline"),
	}
}

// Process persists and dispatches every triggered result through the given
// channel. One result failing is logged and skipped; the rest still go out.
func (s *Service) Process(
	ctx context.Context,
	userID uuid.UUID,
	results []*rules.EvaluationResult,
	channel notify.Channel,
	useAI bool,
) []*alert.Alert {
	created := make([]*alert.Alert, 0, len(results))
	for _, res := range results {
		a, err := s.processOne(ctx, userID, res, channel, useAI)
		if err != nil {
			s.log.ErrorWithContext(ctx, errors.Wrap(err, "process triggered result"), map[string]string{
				"rule":   res.Rule.Name,
				"symbol": res.Symbol,
			})
			continue
		}
		created = append(created, a)
	}
	return created
}

func (s *Service) processOne(
	ctx context.Context,
	userID uuid.UUID,
	res *rules.EvaluationResult,
	channel notify.Channel,
	useAI bool,
) (*alert.Alert, error) {
	now := s.now()

	a := &alert.Alert{
		ID:          uuid.New(),
		UserID:      userID,
		RuleID:      res.Rule.ID,
		HoldingID:   res.HoldingID,
		Symbol:      res.Symbol,
		Message:     fmt.Sprintf("%s: %s", res.Rule.Name, res.Reason),
		TriggeredAt: now,
	}

	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "create alert")
	}

	// Stamp the cooldown immediately so the next cycle sees it even if
	// everything after this point fails
	if err := s.rules.UpdateLastTriggered(ctx, res.Rule.ID, now); err != nil {
		s.log.Warnw("Failed to stamp rule cooldown", "rule", res.Rule.Name, "error", err)
	}

	if useAI && s.generator != nil {
		if summary := s.enrich(ctx, res); summary != "" {
			a.AISummary = &summary
			if err := s.alerts.SetAISummary(ctx, a.ID, summary); err != nil {
				s.log.Warnw("Failed to attach AI summary", "alert_id", a.ID, "error", err)
			}
		}
	}

	if channel != nil && channel.Notify(ctx, a) {
		a.Notified = true
		if err := s.alerts.MarkNotified(ctx, a.ID); err != nil {
			s.log.Warnw("Failed to mark alert notified", "alert_id", a.ID, "error", err)
		}
	} else if channel != nil {
		s.log.Warnw("No channel delivered the alert", "alert_id", a.ID)
	}

	return a, nil
}

// enrich asks the context generator for a summary. Best effort: any error or
// panic leaves the summary absent.
func (s *Service) enrich(ctx context.Context, res *rules.EvaluationResult) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("Context generator panicked", "symbol", res.Symbol, "panic", r)
			summary = ""
		}
	}()

	alertCtx := ai.AlertContext{
		Symbol:    res.Symbol,
		RuleName:  res.Rule.Name,
		RuleType:  string(res.Rule.RuleType),
		Threshold: res.Threshold,
		Reason:    res.Reason,
		Price:     res.Price,
		RSI:       res.RSI,
	}
	if res.CostBasis > 0 {
		costBasis := res.CostBasis
		change := (res.Price - res.CostBasis) / res.CostBasis * 100
		alertCtx.CostBasis = &costBasis
		alertCtx.PercentChange = &change
	}

	if s.ranges != nil {
		if high, low, err := s.ranges.Get52WeekRange(ctx, res.Symbol); err == nil {
			alertCtx.High52W = &high
			alertCtx.Low52W = &low
		}
	}

	out, err := s.generator.GenerateContext(ctx, alertCtx)
	if err != nil {
		s.log.Warnw("AI enrichment failed", "symbol", res.Symbol, "error", err)
		return ""
	}
	return out
}

// SendTestAlert pushes a synthetic alert through the full pipeline so users
// can verify their channels without waiting for a real trigger.
func (s *Service) SendTestAlert(ctx context.Context, userID uuid.UUID, channel notify.Channel) (*alert.Alert, error) {
	testRule, err := s.rules.GetByName(ctx, userID, testRuleName)
	if errors.Is(err, errors.ErrNotFound) {
		testRule = &rule.Rule{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      testRuleName,
			RuleType:  rule.TypePriceBelowValue,
			Enabled:   false,
			CreatedAt: s.now(),
		}
		if err := s.rules.Create(ctx, testRule); err != nil {
			return nil, errors.Wrap(err, "create test rule")
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "look up test rule")
	}

	a := &alert.Alert{
		ID:          uuid.New(),
		UserID:      userID,
		RuleID:      testRule.ID,
		Symbol:      "TEST",
		Message:     "Test alert: if you can read this, notifications are working",
		TriggeredAt: s.now(),
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "create test alert")
	}

	if channel != nil && channel.Notify(ctx, a) {
		a.Notified = true
		if err := s.alerts.MarkNotified(ctx, a.ID); err != nil {
			s.log.Warnw("Failed to mark test alert notified", "alert_id", a.ID, "error", err)
		}
	}

	return a, nil
}
