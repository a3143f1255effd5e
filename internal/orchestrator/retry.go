package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/catalog"
)

var errNoAdapter = errors.New("no adapter configured")

// search waits for the category's rate limit and then queries the adapter
// with retries, all inside ctx's deadline.
func search[T any](ctx context.Context, cfg Config, logger *slog.Logger, adapter catalog.Adapter[T], c catalog.Constraints) ([]T, error) {
	if adapter == nil {
		return nil, errNoAdapter
	}

	if cfg.RateLimiter != nil {
		if err := cfg.RateLimiter.Wait(ctx, c.Category); err != nil {
			return nil, err
		}
	}

	return searchWithRetry(ctx, cfg, logger, adapter, c)
}

func searchWithRetry[T any](ctx context.Context, cfg Config, logger *slog.Logger, adapter catalog.Adapter[T], c catalog.Constraints) ([]T, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(cfg.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(cfg.RetryDelays) {
				delayIdx = len(cfg.RetryDelays) - 1
			}
			delay := cfg.RetryDelays[delayIdx]

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		items, err := searchOnce(ctx, adapter, c)
		if err == nil {
			return items, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		logger.Warn("catalog attempt failed",
			"catalog", adapter.Name(),
			"category", c.Category,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, lastErr
}

// searchOnce stops waiting at the deadline even if the adapter ignores ctx.
func searchOnce[T any](ctx context.Context, adapter catalog.Adapter[T], c catalog.Constraints) ([]T, error) {
	type reply struct {
		items []T
		err   error
	}

	replyCh := make(chan reply, 1)
	go func() {
		items, err := adapter.Search(ctx, c)
		replyCh <- reply{items: items, err: err}
	}()

	select {
	case r := <-replyCh:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
