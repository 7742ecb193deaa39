// Package retry wraps database writes in a bounded exponential-backoff loop.
// Only errors matching a fixed allow-list of transient conditions are
// retried; validation and not-found errors propagate immediately.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "task-vault.com/task-vault/internal/errors"
)

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
	}
}

var transientMarkers = []string{
	"database is locked",
	"database table is locked",
	"database schema is locked",
	"deadlock",
	"lock wait timeout",
	"connection reset",
	"connection refused",
	"broken pipe",
	"i/o timeout",
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do runs fn, retrying transient failures with exponential backoff until
// the attempt budget is spent or ctx is cancelled.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return err
}
