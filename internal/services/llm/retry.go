package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
)

// ErrRateLimited is returned when every attempt of a call was rate limited.
var ErrRateLimited = errors.New("rate limited after retries")

// RetryPolicy bounds retries of a single text-generation call.
// Only rate-limit responses are retried; any other failure returns immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first (default: 3)
	MaxAttempts int

	// BaseBackoff is multiplied by the attempt number after a 429 (default: 5s)
	BaseBackoff time.Duration

	// MaxBackoff caps a single wait, including API-suggested delays (default: 60s)
	MaxBackoff time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// Default retry constants.
const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 5 * time.Second
	DefaultMaxBackoff  = 60 * time.Second
)

// NewDefaultRetryPolicy returns the retry policy used when none is configured.
func NewDefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseBackoff: DefaultBaseBackoff,
		MaxBackoff:  DefaultMaxBackoff,
	}
}

// IsRateLimitError checks if an error is a provider rate limit error.
// Matches 429 status codes and RESOURCE_EXHAUSTED errors.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(errStr), "rate limit") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from an error.
// Returns 0 if no delay is found in the error message.
//
// Example error message:
// "Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// Backoff returns the wait after a rate-limited attempt (0-based).
// The wait is BaseBackoff*(attempt+1), raised to the API-suggested delay when
// that is longer, and capped at MaxBackoff.
func (p *RetryPolicy) Backoff(attempt int, apiDelay time.Duration) time.Duration {
	backoff := p.BaseBackoff * time.Duration(attempt+1)
	if apiDelay > backoff {
		backoff = apiDelay
	}
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}
	return backoff
}

// Do runs fn until it succeeds, fails with a non rate-limit error, or runs out of attempts.
func (p *RetryPolicy) Do(ctx context.Context, logger arbor.ILogger, operation string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRateLimitError(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		backoff := p.Backoff(attempt, ExtractRetryDelay(lastErr))
		logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(lastErr).
			Msg("Rate limited, waiting before retry")

		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: %w after %d attempts: %v", operation, ErrRateLimited, attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
