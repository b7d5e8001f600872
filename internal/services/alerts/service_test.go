package alerts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/adapters/ai"
	"argus/internal/domain/alert"
	"argus/internal/domain/rule"
	"argus/internal/services/rules"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

type memAlerts struct {
	mu      sync.Mutex
	alerts  map[uuid.UUID]*alert.Alert
	creates int
}

func newMemAlerts() *memAlerts {
	return &memAlerts{alerts: make(map[uuid.UUID]*alert.Alert)}
}

func (m *memAlerts) Create(_ context.Context, a *alert.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.alerts[a.ID] = &cp
	m.creates++
	return nil
}

func (m *memAlerts) GetByID(_ context.Context, id uuid.UUID) (*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, "alert")
	}
	cp := *a
	return &cp, nil
}

func (m *memAlerts) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*alert.Alert
	for _, a := range m.alerts {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlerts) SetAISummary(_ context.Context, id uuid.UUID, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return errors.Wrap(errors.ErrNotFound, "alert")
	}
	a.AISummary = &summary
	return nil
}

func (m *memAlerts) MarkNotified(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return errors.Wrap(errors.ErrNotFound, "alert")
	}
	a.Notified = true
	return nil
}

type memRules struct {
	mu    sync.Mutex
	rules map[uuid.UUID]*rule.Rule
}

func newMemRules() *memRules {
	return &memRules{rules: make(map[uuid.UUID]*rule.Rule)}
}

func (m *memRules) Create(_ context.Context, r *rule.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[r.ID] = r
	return nil
}

func (m *memRules) GetByID(_ context.Context, id uuid.UUID) (*rule.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrNotFound, "rule")
	}
	return r, nil
}

func (m *memRules) GetByName(_ context.Context, userID uuid.UUID, name string) (*rule.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rules {
		if r.UserID == userID && r.Name == name {
			return r, nil
		}
	}
	return nil, errors.Wrap(errors.ErrNotFound, "rule")
}

func (m *memRules) ListEnabledByUser(_ context.Context, userID uuid.UUID) ([]*rule.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rule.Rule
	for _, r := range m.rules {
		if r.UserID == userID && r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRules) UpdateLastTriggered(_ context.Context, id uuid.UUID, triggeredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return errors.Wrap(errors.ErrNotFound, "rule")
	}
	ts := triggeredAt
	r.LastTriggeredAt = &ts
	return nil
}

type stubChannel struct {
	result bool
	calls  int
	seen   []*alert.Alert
}

func (s *stubChannel) Name() string { return "stub" }

func (s *stubChannel) Notify(_ context.Context, a *alert.Alert) bool {
	s.calls++
	s.seen = append(s.seen, a)
	return s.result
}

func triggeredResult(r *rule.Rule) *rules.EvaluationResult {
	holdingID := uuid.New()
	return &rules.EvaluationResult{
		Rule:      r,
		Symbol:    "AAPL",
		Reason:    "Price $75.00 is 25.0% below cost basis $100.00 (threshold: 20%)",
		Price:     75,
		CostBasis: 100,
		Threshold: 20,
		HoldingID: &holdingID,
	}
}

func TestProcess_CreatesAlertAndStampsCooldown(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()

	r := &rule.Rule{ID: uuid.New(), UserID: userID, Name: "stop loss", RuleType: rule.TypePriceBelowCostPct, Enabled: true}
	require.NoError(t, ruleRepo.Create(context.Background(), r))

	channel := &stubChannel{result: true}
	svc := NewService(alertRepo, ruleRepo, nil, nil, logger.Get())

	created := svc.Process(context.Background(), userID, []*rules.EvaluationResult{triggeredResult(r)}, channel, false)
	require.Len(t, created, 1)

	a := created[0]
	assert.Equal(t, "stop loss: Price $75.00 is 25.0% below cost basis $100.00 (threshold: 20%)", a.Message)
	assert.True(t, a.Notified)
	assert.Nil(t, a.AISummary)

	stored, err := alertRepo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Notified)

	require.NotNil(t, r.LastTriggeredAt, "cooldown must be stamped")
	assert.Equal(t, 1, channel.calls)
}

func TestProcess_NotificationFailureKeepsAlertAndCooldown(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()

	r := &rule.Rule{ID: uuid.New(), UserID: userID, Name: "stop loss", RuleType: rule.TypePriceBelowCostPct, Enabled: true}
	require.NoError(t, ruleRepo.Create(context.Background(), r))

	channel := &stubChannel{result: false}
	svc := NewService(alertRepo, ruleRepo, nil, nil, logger.Get())

	created := svc.Process(context.Background(), userID, []*rules.EvaluationResult{triggeredResult(r)}, channel, false)
	require.Len(t, created, 1)

	stored, err := alertRepo.GetByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.Notified, "failed delivery leaves alert unnotified")
	assert.NotNil(t, r.LastTriggeredAt, "failed delivery must not undo the cooldown")
}

func TestProcess_AIEnrichmentAttachesSummary(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()

	r := &rule.Rule{ID: uuid.New(), UserID: userID, Name: "stop loss", RuleType: rule.TypePriceBelowCostPct, Enabled: true}
	require.NoError(t, ruleRepo.Create(context.Background(), r))

	generator := &ai.MockGenerator{}
	channel := &stubChannel{result: true}
	svc := NewService(alertRepo, ruleRepo, generator, nil, logger.Get())

	created := svc.Process(context.Background(), userID, []*rules.EvaluationResult{triggeredResult(r)}, channel, true)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].AISummary)
	assert.Contains(t, *created[0].AISummary, "AAPL")

	stored, err := alertRepo.GetByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AISummary)

	require.Len(t, generator.Calls, 1)
	require.NotNil(t, generator.Calls[0].PercentChange)
	assert.InDelta(t, -25.0, *generator.Calls[0].PercentChange, 0.01)
}

func TestProcess_AIFailureLeavesSummaryAbsent(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()

	r := &rule.Rule{ID: uuid.New(), UserID: userID, Name: "stop loss", RuleType: rule.TypePriceBelowCostPct, Enabled: true}
	require.NoError(t, ruleRepo.Create(context.Background(), r))

	generator := &ai.MockGenerator{Err: errors.New("quota exhausted")}
	channel := &stubChannel{result: true}
	svc := NewService(alertRepo, ruleRepo, generator, nil, logger.Get())

	created := svc.Process(context.Background(), userID, []*rules.EvaluationResult{triggeredResult(r)}, channel, true)
	require.Len(t, created, 1)
	assert.Nil(t, created[0].AISummary, "enrichment failure must not block the alert")
	assert.True(t, created[0].Notified)
}

func TestProcess_AIDisabledSkipsGenerator(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()

	r := &rule.Rule{ID: uuid.New(), UserID: userID, Name: "stop loss", RuleType: rule.TypePriceBelowCostPct, Enabled: true}
	require.NoError(t, ruleRepo.Create(context.Background(), r))

	generator := &ai.MockGenerator{}
	svc := NewService(alertRepo, ruleRepo, generator, nil, logger.Get())

	svc.Process(context.Background(), userID, []*rules.EvaluationResult{triggeredResult(r)}, &stubChannel{result: true}, false)
	assert.Empty(t, generator.Calls)
}

func TestSendTestAlert_CreatesHiddenRuleOnce(t *testing.T) {
	userID := uuid.New()
	alertRepo := newMemAlerts()
	ruleRepo := newMemRules()
	channel := &stubChannel{result: true}

	svc := NewService(alertRepo, ruleRepo, nil, nil, logger.Get())

	first, err := svc.SendTestAlert(context.Background(), userID, channel)
	require.NoError(t, err)
	assert.True(t, first.Notified)
	assert.Equal(t, "TEST", first.Symbol)

	second, err := svc.SendTestAlert(context.Background(), userID, channel)
	require.NoError(t, err)
	assert.Equal(t, first.RuleID, second.RuleID, "test rule is reused")

	hidden, err := ruleRepo.GetByName(context.Background(), userID, testRuleName)
	require.NoError(t, err)
	assert.False(t, hidden.Enabled, "test rule must never evaluate")
	assert.Equal(t, 2, alertRepo.creates)
}
