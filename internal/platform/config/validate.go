package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Storage.validate(),
		c.Scoring.validate(),
		c.Workflow.validate(),
		c.Notify.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case StorageMemory:
		return nil
	case StorageSQLite:
		if s.Path == "" {
			return errors.New("storage.path must not be empty when driver is sqlite")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver must be one of: memory, sqlite; got %q", s.Driver)
	}
}

func (s *ScoringConfig) validate() error {
	var errs []error

	if s.DefaultInnings < 1 {
		errs = append(errs, fmt.Errorf("scoring.default_innings must be >= 1, got %d", s.DefaultInnings))
	}
	if s.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("scoring.history_limit must be >= 1, got %d", s.HistoryLimit))
	}

	return errors.Join(errs...)
}

func (w *WorkflowConfig) validate() error {
	var errs []error

	if w.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("workflow.max_attempts must be >= 1, got %d", w.MaxAttempts))
	}
	if w.InitialDelay < 0 {
		errs = append(errs, errors.New("workflow.initial_delay must not be negative"))
	}
	if w.MaxDelay < w.InitialDelay {
		errs = append(errs, errors.New("workflow.max_delay must not be below workflow.initial_delay"))
	}
	if w.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("workflow.multiplier must be >= 1, got %f", w.Multiplier))
	}

	return errors.Join(errs...)
}

func (n *NotifyConfig) validate() error {
	var errs []error

	if n.Redis.Enabled {
		if n.Redis.URL == "" {
			errs = append(errs, errors.New("notify.redis.url must not be empty when redis is enabled"))
		}
		if n.Redis.Stream == "" {
			errs = append(errs, errors.New("notify.redis.stream must not be empty when redis is enabled"))
		}
	}
	if n.Webhook.Enabled {
		if n.Webhook.Path == "" {
			errs = append(errs, errors.New("notify.webhook.path must not be empty when webhook is enabled"))
		}
		errs = append(errs, n.Webhook.Client.validate())
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, errors.New("notify.webhook.client.base_url must not be empty"))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("notify.webhook.client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("notify.webhook.client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("notify.webhook.client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("notify.webhook.client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("notify.webhook.client.rate_limit.requests_per_second must not be negative"))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
