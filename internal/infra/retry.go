package infra

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"hotel-broker/internal/pkg/clock"
)

const jitterFraction = 0.3

// RetryConfig bounds one retried operation. MaxRetries counts retries,
// not attempts: MaxRetries=3 means up to four attempts.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Label        string
}

func DefaultRetryConfig(label string) RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Label:        label,
	}
}

// RetryError aggregates a retried operation's final failure.
type RetryError struct {
	Label   string
	Retries int
	err     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s failed after %d retries: %s", e.Label, e.Retries, e.err.Error())
}

func (e *RetryError) Unwrap() error {
	return e.err
}

// Executor runs operations with exponential backoff and jitter. Each Do
// call is independent; no state is shared between concurrent calls.
type Executor struct {
	clk    clock.Clock
	logger *slog.Logger
	jitter func() float64 // uniform [0,1), injectable for tests
}

func NewExecutor(clk clock.Clock, logger *slog.Logger) *Executor {
	return &Executor{
		clk:    clk,
		logger: logger,
		jitter: rand.Float64,
	}
}

// Do runs op, classifying each failure and retrying while the failure is
// retryable and budget remains. The returned error wraps the classified
// last failure together with the retry count and operation label.
func Do[T any](ctx context.Context, ex *Executor, cfg RetryConfig, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var classified *Error

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		classified = Classify(err)
		if !classified.Retryable || attempt >= cfg.MaxRetries {
			return zero, &RetryError{Label: cfg.Label, Retries: attempt, err: classified}
		}

		delay := backoffDelay(cfg, attempt, ex.jitter())
		ex.logger.Warn("retrying upstream operation",
			"operation", cfg.Label,
			"attempt", attempt+1,
			"delay", delay,
			"category", string(classified.Category),
		)
		if sleepErr := ex.clk.Sleep(ctx, delay); sleepErr != nil {
			return zero, &RetryError{Label: cfg.Label, Retries: attempt, err: classified}
		}
	}
}

// backoffDelay computes min(initial*2^attempt + jitter, max) where jitter
// is uniform in [0, 30% of the base delay).
func backoffDelay(cfg RetryConfig, attempt int, jitter float64) time.Duration {
	base := float64(cfg.InitialDelay) * float64(uint64(1)<<uint(attempt))
	delay := base + jitter*jitterFraction*base
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
