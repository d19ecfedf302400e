// Package clock provides context-aware waiting helpers.
package clock

import (
	"context"
	"time"
)

// Until calls check every interval until it succeeds or ctx is done. onFailure, when set,
// sees every failed attempt. The last check error is dropped in favor of ctx.Err().
func Until(ctx context.Context, interval time.Duration, check func(context.Context) error, onFailure func(attempt int, err error)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		err := check(ctx)
		if err == nil {
			return nil
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}
		timer.Reset(interval)
	}
}
