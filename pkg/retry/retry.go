package retry

import (
	"time"

	"stockwatch-backend/pkg/logger"
)

// Config controls how often and how aggressively an operation is retried.
type Config struct {
	// MaxAttempts is the number of tries before giving up
	MaxAttempts int
	// Delay is the pause before the second attempt
	Delay time.Duration
	// MaxDelay caps the pause between attempts
	MaxDelay time.Duration
	// Multiplier grows the pause after every failed attempt
	Multiplier float64
	// RetryableErr decides whether an error is worth another attempt
	RetryableErr func(error) bool
}

// DefaultConfig retries five times with an exponential backoff capped at 30s.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		Delay:       time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		RetryableErr: func(error) bool {
			return true
		},
	}
}

// WithRetry wraps fn so that calling the returned function retries fn
// according to config. A nil config uses DefaultConfig.
func WithRetry[T any](name string, fn func() (T, error), log *logger.Logger, config *Config) func() (T, error) {
	if config == nil {
		config = DefaultConfig()
	}

	return func() (T, error) {
		var lastErr error
		delay := config.Delay

		for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
			result, err := fn()
			if err == nil {
				return result, nil
			}
			lastErr = err

			if !config.RetryableErr(err) {
				var zero T
				return zero, err
			}

			if attempt < config.MaxAttempts {
				log.PrintfWarning("Attempt %d of %s failed: %s. Retrying in %.1fs", attempt, name, err, delay.Seconds())
				time.Sleep(delay)
				delay = time.Duration(float64(delay) * config.Multiplier)
				if delay > config.MaxDelay {
					delay = config.MaxDelay
				}
			}
		}

		var zero T
		log.PrintfError("Giving up on %s after %d attempts", name, config.MaxAttempts)
		return zero, lastErr
	}
}
