package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/alert"
	"argus/internal/domain/notification"
	"argus/internal/domain/user"
	"argus/internal/metrics"
	"argus/internal/services/alerts"
	"argus/internal/services/notify"
	"argus/internal/services/rules"
	"argus/pkg/errors"
	"argus/pkg/logger"
)

// Options tune one monitoring cycle
type Options struct {
	UseAI          bool
	IgnoreCooldown bool
}

// Service is the single entry point for running an evaluation cycle:
// engine → alert pipeline → notification fan-out, with channels selected
// from the user's notification settings.
type Service struct {
	users    user.Repository
	settings notification.Repository
	engine   *rules.Engine
	pipeline *alerts.Service

	telegramSender notify.MessageSender // nil when no bot token configured
	defaultChatID  int64                // fallback when settings carry no chat ID
	defaultEmail   string

	log *logger.Logger
}

// NewService creates a new monitor service
func NewService(
	users user.Repository,
	settings notification.Repository,
	engine *rules.Engine,
	pipeline *alerts.Service,
	telegramSender notify.MessageSender,
	defaultChatID int64,
	defaultEmail string,
	log *logger.Logger,
) *Service {
	return &Service{
		users:          users,
		settings:       settings,
		engine:         engine,
		pipeline:       pipeline,
		telegramSender: telegramSender,
		defaultChatID:  defaultChatID,
		defaultEmail:   defaultEmail,
		log:            log.With("component", "monitor"),
	}
}

// RunCycle evaluates all of one user's rules and dispatches any triggered
// alerts. Returns the alerts created this cycle.
func (s *Service) RunCycle(ctx context.Context, userID uuid.UUID, opts Options) ([]*alert.Alert, error) {
	start := time.Now()

	results, err := s.engine.EvaluateAll(ctx, userID, rules.Options{IgnoreCooldown: opts.IgnoreCooldown})
	if err != nil {
		metrics.RecordCycle(time.Since(start), 0, err)
		return nil, errors.Wrap(err, "evaluate rules")
	}
	if len(results) == 0 {
		metrics.RecordCycle(time.Since(start), 0, nil)
		return nil, nil
	}

	channel := s.channelFor(ctx, userID)
	created := s.pipeline.Process(ctx, userID, results, channel, opts.UseAI)

	metrics.RecordCycle(time.Since(start), len(created), nil)
	s.log.Infow("Cycle complete",
		"user_id", userID,
		"triggered", len(results),
		"alerts", len(created),
		"duration", time.Since(start))

	return created, nil
}

// EnsureDefaultUser returns the configured default user, creating it on
// first run so a fresh install works without manual setup.
func (s *Service) EnsureDefaultUser(ctx context.Context) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, s.defaultEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Wrap(err, "look up default user")
	}

	u = &user.User{
		ID:        uuid.New(),
		Email:     s.defaultEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create default user")
	}

	s.log.Infow("Created default user", "email", s.defaultEmail)
	return u, nil
}

// ListUsers returns every user the periodic worker should evaluate
func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

// SendTestAlert exercises the user's configured channels end to end
func (s *Service) SendTestAlert(ctx context.Context, userID uuid.UUID) (*alert.Alert, error) {
	return s.pipeline.SendTestAlert(ctx, userID, s.channelFor(ctx, userID))
}

// channelFor builds the composite channel from the user's settings. Console
// is the default so a user with no settings row still sees alerts.
func (s *Service) channelFor(ctx context.Context, userID uuid.UUID) notify.Channel {
	settings, err := s.settings.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			s.log.Warnw("Failed to load notification settings, using defaults",
				"user_id", userID, "error", err)
		}
		settings = notification.DefaultSettings(userID)
	}

	var channels []notify.Channel
	if settings.ConsoleEnabled {
		channels = append(channels, notify.NewConsoleChannel(s.log))
	}

	if settings.TelegramEnabled && s.telegramSender != nil {
		chatID := s.defaultChatID
		if settings.TelegramChatID != nil {
			chatID = *settings.TelegramChatID
		}
		if chatID != 0 {
			channels = append(channels, notify.NewTelegramChannel(s.telegramSender, chatID, s.log))
		} else {
			s.log.Warnw("Telegram enabled but no chat ID configured", "user_id", userID)
		}
	}

	if len(channels) == 0 {
		// Never leave a user silent
		channels = append(channels, notify.NewConsoleChannel(s.log))
	}

	return notify.NewMultiChannel(s.log, channels...)
}
