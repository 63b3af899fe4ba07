package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation constants define acceptable bounds for configuration values
const (
	minSyncInterval = 1 * time.Minute // Minimum to avoid hammering the API
	maxSyncInterval = 24 * time.Hour  // Maximum reasonable sweep interval

	minRetryTotal = 0  // Retries may be disabled entirely
	maxRetryTotal = 10 // Prevent unbounded retry storms

	maxRetryBackoff = 30 * time.Second
)

// Validate checks if the configuration values are valid and within
// acceptable ranges. It returns all validation errors at once using
// errors.Join for better user experience.
func (c *Config) Validate() error {
	var errs []error

	if err := c.validateSyncInterval(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateTimeouts(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateRetry(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateWebhookURL(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

func (c *Config) validateSyncInterval() error {
	if c.SyncInterval < minSyncInterval {
		return fmt.Errorf(
			"SYNC_INTERVAL must be at least %v to avoid excessive API calls, got %v (hint: recommended range is 5m-1h)",
			minSyncInterval, c.SyncInterval,
		)
	}

	if c.SyncInterval > maxSyncInterval {
		return fmt.Errorf(
			"SYNC_INTERVAL must be at most %v, got %v",
			maxSyncInterval, c.SyncInterval,
		)
	}

	return nil
}

func (c *Config) validateTimeouts() error {
	var errs []error

	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("WANDERER_API_TIMEOUT must be positive, got %v", c.APITimeout))
	}

	if c.APILongTimeout < c.APITimeout {
		errs = append(errs, fmt.Errorf(
			"WANDERER_API_LONG_TIMEOUT must be at least WANDERER_API_TIMEOUT (%v), got %v",
			c.APITimeout, c.APILongTimeout,
		))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (c *Config) validateRetry() error {
	var errs []error

	if c.RetryTotal < minRetryTotal || c.RetryTotal > maxRetryTotal {
		errs = append(errs, fmt.Errorf(
			"WANDERER_API_RETRY_TOTAL must be between %d and %d, got %d",
			minRetryTotal, maxRetryTotal, c.RetryTotal,
		))
	}

	if c.RetryBackoff < 0 || c.RetryBackoff > maxRetryBackoff {
		errs = append(errs, fmt.Errorf(
			"WANDERER_API_RETRY_BACKOFF must be between 0 and %v, got %v",
			maxRetryBackoff, c.RetryBackoff,
		))
	}

	for _, code := range c.RetryStatusCodes {
		if code < 100 || code > 599 {
			errs = append(errs, fmt.Errorf(
				"WANDERER_API_RETRY_STATUS_CODES contains invalid status code %d",
				code,
			))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (c *Config) validateWebhookURL() error {
	if c.DiscordWebhookURL == "" {
		return nil // Notifications are optional
	}

	if !strings.Contains(c.DiscordWebhookURL, "/api/webhooks/") {
		return fmt.Errorf("DISCORD_WEBHOOK_URL does not look like a Discord webhook URL")
	}

	return nil
}
