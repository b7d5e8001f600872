package workers

import (
	"context"
	"sync/atomic"
	"time"

	"argus/internal/services/monitor"
	"argus/pkg/errors"
)

// MonitorWorker runs one full evaluation cycle per tick: every user's enabled
// rules against their holdings, alerts out through their channels. One user
// failing never blocks the rest of the cycle.
type MonitorWorker struct {
	*BaseWorker
	monitor *monitor.Service
	opts    monitor.Options
	cycles  atomic.Int64
}

// NewMonitorWorker creates the periodic monitoring worker
func NewMonitorWorker(svc *monitor.Service, interval time.Duration, opts monitor.Options, enabled bool) *MonitorWorker {
	return &MonitorWorker{
		BaseWorker: NewBaseWorker("rule_monitor", interval, enabled),
		monitor:    svc,
		opts:       opts,
	}
}

// Run executes one monitoring cycle
func (w *MonitorWorker) Run(ctx context.Context) error {
	start := time.Now()
	cycle := w.cycles.Add(1)
	log := w.Log().With("cycle", cycle)

	if cycle == 1 {
		if _, err := w.monitor.EnsureDefaultUser(ctx); err != nil {
			w.RecordError(err, time.Since(start))
			return errors.Wrap(err, "ensure default user")
		}
	}

	users, err := w.monitor.ListUsers(ctx)
	if err != nil {
		w.RecordError(err, time.Since(start))
		return errors.Wrap(err, "list users")
	}

	var (
		totalAlerts int
		failedUsers int
		lastErr     error
	)
	for _, u := range users {
		created, err := w.monitor.RunCycle(ctx, u.ID, w.opts)
		if err != nil {
			failedUsers++
			lastErr = err
			log.Errorw("Cycle failed for user", "user_id", u.ID, "error", err)
			continue
		}
		totalAlerts += len(created)
	}

	log.Infow("Monitoring cycle finished",
		"users", len(users),
		"failed_users", failedUsers,
		"alerts", totalAlerts,
		"duration", time.Since(start))

	if lastErr != nil {
		w.RecordError(lastErr, time.Since(start))
		return errors.Wrapf(lastErr, "cycle %d: %d of %d users failed", cycle, failedUsers, len(users))
	}

	w.RecordRun(time.Since(start))
	return nil
}
