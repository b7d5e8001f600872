package strategies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/rule"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// Service applies strategy presets by materializing their templates as rules
type Service struct {
	rules rule.Repository
	log   *logger.Logger
}

// NewService creates a new strategies service
func NewService(rules rule.Repository, log *logger.Logger) *Service {
	return &Service{
		rules: rules,
		log:   log.With("component", "strategies"),
	}
}

// Apply creates the preset's rules for a user. Rule names carry the preset ID
// prefix so applied presets can be recognized later; a rule whose name already
// exists is skipped rather than duplicated. Returns the rules created.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, presetID string) ([]*rule.Rule, error) {
	preset := GetPreset(strings.ToLower(presetID))
	if preset == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "preset %q", presetID)
	}

	var created []*rule.Rule
	for _, tmpl := range preset.Rules {
		name := fmt.Sprintf("[%s] %s", preset.ID, tmpl.Name)

		_, err := s.rules.GetByName(ctx, userID, name)
		if err == nil {
			s.log.Debugw("Rule already exists, skipping", "rule", name)
			continue
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return created, errors.Wrapf(err, "look up rule %q", name)
		}

		r := &rule.Rule{
			ID:              uuid.New(),
			UserID:          userID,
			Name:            name,
			RuleType:        tmpl.RuleType,
			Threshold:       tmpl.Threshold,
			Symbol:          tmpl.Symbol,
			Enabled:         true,
			CooldownMinutes: tmpl.CooldownMinutes,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.rules.Create(ctx, r); err != nil {
			return created, errors.Wrapf(err, "create rule %q", name)
		}
		created = append(created, r)
	}

	s.log.Infow("Applied strategy preset",
		"preset", preset.ID, "user_id", userID, "rules_created", len(created))

	return created, nil
}
