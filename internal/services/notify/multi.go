package notify

import (
	"context"

	"argus/internal/domain/alert"
	"argus/internal/metrics"
	"argus/pkg/logger"
)

// Ensure MultiChannel implements Channel
var _ Channel = (*MultiChannel)(nil)

// MultiChannel fans an alert out to every configured channel. Each channel
// is invoked exactly once; a panic or failure in one never stops the others.
// Overall success means at least one channel delivered.
type MultiChannel struct {
	channels []Channel
	log      *logger.Logger
}

// NewMultiChannel creates a composite channel
func NewMultiChannel(log *logger.Logger, channels ...Channel) *MultiChannel {
	return &MultiChannel{
		channels: channels,
		log:      log.With("channel", "multi"),
	}
}

func (m *MultiChannel) Name() string { return "multi" }

// Notify delivers to all channels and reports whether any succeeded
func (m *MultiChannel) Notify(ctx context.Context, a *alert.Alert) bool {
	anySucceeded := false
	for _, ch := range m.channels {
		ok := m.notifyOne(ctx, ch, a)
		metrics.RecordNotification(ch.Name(), ok)
		if ok {
			anySucceeded = true
		} else {
			m.log.Warnw("Channel failed to deliver", "channel", ch.Name(), "alert_id", a.ID)
		}
	}
	return anySucceeded
}

func (m *MultiChannel) notifyOne(ctx context.Context, ch Channel, a *alert.Alert) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorw("Channel panicked during delivery",
				"channel", ch.Name(), "alert_id", a.ID, "panic", r)
			ok = false
		}
	}()
	return ch.Notify(ctx, a)
}
