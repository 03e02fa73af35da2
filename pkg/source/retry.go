package source

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"github.com/pitwall/pitwall/pkg/model"
)

const (
	maxAttempts = 5
	baseBackoff = time.Second
)

// statusError is a non-2xx response from a plain HTTP source.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.code)
}

// withRetry runs fn with exponential backoff and jitter. Quota
// exhaustion is never retried: against a hard daily quota a retry only
// burns budget.
func withRetry(ctx context.Context, logger log.FieldLogger, fn func() error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(attempt - 1)
			logger.WithError(err).Warnf("retrying in %s (attempt %d/%d)", delay, attempt, maxAttempts)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}
	}

	return errors.Wrapf(err, "giving up after %d attempts", maxAttempts)
}

// backoffDelay doubles per attempt with +/-50% jitter.
func backoffDelay(attempt int) time.Duration {
	d := baseBackoff << uint(attempt-1)
	return d/2 + time.Duration(rand.Int63n(int64(d)))
}

func isRetryable(err error) bool {
	switch cause := errors.Cause(err).(type) {
	case *googleapi.Error:
		return cause.Code == 429 || cause.Code >= 500
	case *statusError:
		return cause.code == 429 || cause.code >= 500
	case net.Error:
		return true
	default:
		return false
	}
}

// mapAPIError converts upstream error shapes into the package sentinels
// so callers can fast-fail on conditions that must not be retried.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 403 {
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "quotaExceeded", "dailyLimitExceeded":
				return errors.Wrap(model.ErrQuotaExceeded, gerr.Message)
			}
		}
	}

	return err
}
