package readiness

import (
	"context"
	"time"

	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/logging"
)

// WaitUntilReady polls check every interval until it reports ready or
// timeout elapses. The first probe happens immediately, so at most
// ⌈timeout/interval⌉ probes run. The call blocks the caller for the
// whole poll duration; cancellation is only via ctx.
func WaitUntilReady(ctx context.Context, check Check, interval, timeout time.Duration, logger logging.Logger) error {
	if interval <= 0 {
		return errors.NewValidationError("poll interval must be positive", nil)
	}
	if timeout <= 0 {
		return errors.NewValidationError("poll timeout must be positive", nil)
	}

	start := time.Now()
	attempt := 0
	for {
		if elapsed := time.Since(start); elapsed >= timeout {
			logger.Warnf("Readiness polling timed out, attempts: %d, elapsed: %v", attempt, elapsed)
			return errors.NewTimeoutError("condition not ready before timeout", nil).
				WithContext("timeout", timeout.String()).
				WithContext("attempts", attempt)
		}

		attempt++
		ready, message := check.Ready(ctx)
		if ready {
			logger.Infof("Readiness condition satisfied, attempts: %d, message: %s", attempt, message)
			return nil
		}
		logger.Debugf("Not ready yet, attempt: %d, message: %s", attempt, message)

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return errors.NewCancelledError("readiness polling cancelled", ctx.Err())
		}
	}
}
