package config

const (
	defaultServerPort = 8080

	defaultInnings      = 7
	defaultHistoryLimit = 100

	defaultWorkflowMaxAttempts = 3
	defaultWorkflowMultiplier  = 2.0

	defaultRedisMaxLen = 10000

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultRateLimitBurst = 10
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"storage.driver": StorageMemory,
		"storage.path":   "",

		"scoring.default_innings": defaultInnings,
		"scoring.history_limit":   defaultHistoryLimit,

		"workflow.max_attempts":  defaultWorkflowMaxAttempts,
		"workflow.initial_delay": "1s",
		"workflow.max_delay":     "10s",
		"workflow.multiplier":    defaultWorkflowMultiplier,

		"notify.log":             true,
		"notify.redis.enabled":   false,
		"notify.redis.url":       "redis://localhost:6379/0",
		"notify.redis.stream":    "scorebook.matches",
		"notify.redis.max_len":   defaultRedisMaxLen,
		"notify.webhook.enabled": false,
		"notify.webhook.path":    "/hooks/scorebook",

		"notify.webhook.client.base_url":                        "http://localhost:8081",
		"notify.webhook.client.timeout":                         "5s",
		"notify.webhook.client.retry.max_attempts":              defaultRetryMaxAttempts,
		"notify.webhook.client.retry.initial_interval":          "100ms",
		"notify.webhook.client.retry.max_interval":              "2s",
		"notify.webhook.client.retry.multiplier":                defaultRetryMultiplier,
		"notify.webhook.client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"notify.webhook.client.circuit_breaker.timeout":         "30s",
		"notify.webhook.client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"notify.webhook.client.rate_limit.requests_per_second":  0,
		"notify.webhook.client.rate_limit.burst_size":           defaultRateLimitBurst,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "scorebook",
	}
}
