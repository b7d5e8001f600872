package marketdata

import (
	"context"
	"time"

	"argus/pkg/errors"
)

// fetchPool bounds concurrent provider calls and puts a hard deadline on each
// one, so a hung fetch for one symbol cannot stall a whole evaluation cycle.
type fetchPool struct {
	slots   chan struct{}
	timeout time.Duration
}

func newFetchPool(workers int, timeout time.Duration) *fetchPool {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &fetchPool{
		slots:   make(chan struct{}, workers),
		timeout: timeout,
	}
}

// do runs fn under a worker slot with the pool's timeout. The caller always
// gets a result within the timeout bound even if fn ignores its context.
func (p *fetchPool) do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return errors.Wrap(errors.ErrTimeout, "waiting for fetch slot")
	}

	fctx, cancel := context.WithTimeout(ctx, p.timeout)

	done := make(chan error, 1)
	go func() {
		defer func() { <-p.slots }()
		done <- fn(fctx)
	}()

	select {
	case err := <-done:
		cancel()
		return err
	case <-fctx.Done():
		cancel()
		// fn may have finished right at the deadline
		select {
		case err := <-done:
			return err
		default:
			return errors.Wrapf(errors.ErrTimeout, "fetch exceeded %s", p.timeout)
		}
	}
}
