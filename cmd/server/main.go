// Package main is the entry point for the scorebook service. It wires all
// dependencies using samber/do v2, starts the HTTP server, and handles
// graceful shutdown on SIGINT/SIGTERM.
//
// APP_PROFILE selects the configuration profile. SCOREBOOK_AUTH_SIGNING_KEY
// holds the HMAC key bearer tokens are verified with.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/scorebook/internal/adapters/http"
	"github.com/jsamuelsen11/scorebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/scorebook/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/scorebook/internal/adapters/identity"
	"github.com/jsamuelsen11/scorebook/internal/adapters/notify"
	"github.com/jsamuelsen11/scorebook/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/scorebook/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen11/scorebook/internal/app"
	"github.com/jsamuelsen11/scorebook/internal/app/workflow"
	"github.com/jsamuelsen11/scorebook/internal/platform/config"
	"github.com/jsamuelsen11/scorebook/internal/platform/health"
	"github.com/jsamuelsen11/scorebook/internal/platform/httpclient"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/platform/telemetry"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)

	var cleanup closers
	defer func() {
		if err := cleanup.closeAll(); err != nil {
			logger.Error("closing resources", slog.Any("error", err))
		}
	}()

	registerDependencies(injector, cfg, logger, &cleanup)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// closer is a resource released after the HTTP server has drained.
type closer interface {
	Close() error
}

// closers collects resources opened while the graph is wired.
type closers []closer

func (c *closers) add(cl closer) { *c = append(*c, cl) }

// closeAll releases resources in reverse order of opening.
func (c closers) closeAll() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger, cleanup *closers) {
	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (app.Stores, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return openStores(cfg, registry, cleanup)
	})

	do.Provide(injector, func(i do.Injector) (ports.Scorekeeper, error) {
		stores := do.MustInvoke[app.Stores](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewScorekeeper(stores, logger,
			app.WithMetrics(metrics),
			app.WithDefaultInnings(cfg.Scoring.DefaultInnings),
			app.WithHistoryLimit(cfg.Scoring.HistoryLimit),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Notifier, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return buildNotifier(cfg.Notify, registry, metrics, logger, cleanup)
	})

	do.Provide(injector, func(_ do.Injector) (*identity.JWT, error) {
		authCfg, err := identity.LoadConfigFromEnv()
		if err != nil {
			return nil, err
		}
		return identity.NewJWT(authCfg, nil), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.MatchWorkflow, error) {
		scorer := do.MustInvoke[ports.Scorekeeper](i)
		notifier := do.MustInvoke[ports.Notifier](i)
		verifier := do.MustInvoke[*identity.JWT](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		policy := workflow.Policy{
			MaxAttempts: cfg.Workflow.MaxAttempts,
			Initial:     cfg.Workflow.InitialDelay,
			Multiplier:  cfg.Workflow.Multiplier,
			Max:         cfg.Workflow.MaxDelay,
		}
		if err := policy.Validate(); err != nil {
			return nil, fmt.Errorf("workflow policy: %w", err)
		}
		return workflow.NewMatchWorkflow(scorer, notifier, verifier, logger,
			workflow.WithPolicy(policy),
			workflow.WithMetrics(metrics),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.MatchHandler, error) {
		return handlers.NewMatchHandler(do.MustInvoke[ports.Scorekeeper](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.WorkflowHandler, error) {
		return handlers.NewWorkflowHandler(do.MustInvoke[ports.MatchWorkflow](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		matchH := do.MustInvoke[*handlers.MatchHandler](i)
		workflowH := do.MustInvoke[*handlers.WorkflowHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		verifier := do.MustInvoke[*identity.JWT](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(matchH, workflowH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Authenticate(verifier),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// openStores builds the persistence ports for the configured driver.
func openStores(cfg *config.Config, registry ports.HealthRegistry, cleanup *closers) (app.Stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		db, err := sqlite.Open(context.Background(), cfg.Storage.Path)
		if err != nil {
			return app.Stores{}, fmt.Errorf("opening storage: %w", err)
		}
		cleanup.add(db)
		registry.Register(db)
		return app.Stores{
			Matches: sqlite.NewMatchStore(db),
			Rosters: sqlite.NewRosterStore(db),
			Innings: sqlite.NewInningStore(db),
			Events:  sqlite.NewEventLog(db),
			History: sqlite.NewHistoryStore(db, cfg.Scoring.HistoryLimit),
		}, nil
	default:
		return app.Stores{
			Matches: memory.NewMatchStore(),
			Rosters: memory.NewRosterStore(),
			Innings: memory.NewInningStore(),
			Events:  memory.NewEventLog(),
			History: memory.NewHistoryStore(cfg.Scoring.HistoryLimit),
		}, nil
	}
}

// buildNotifier fans notifications out to every enabled sink. With no sink
// enabled the fan-out delivers nothing.
func buildNotifier(
	cfg config.NotifyConfig,
	registry ports.HealthRegistry,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
	cleanup *closers,
) (ports.Notifier, error) {
	var sinks notify.Multi
	if cfg.Log {
		sinks = append(sinks, notify.NewLog(logger))
	}
	if cfg.Redis.Enabled {
		stream, err := notify.NewRedisStream(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis notifier: %w", err)
		}
		cleanup.add(stream)
		registry.Register(stream)
		sinks = append(sinks, stream)
	}
	if cfg.Webhook.Enabled {
		client := httpclient.New(&cfg.Webhook.Client, "webhook", metrics, logger)
		registry.Register(client)
		sinks = append(sinks, notify.NewWebhook(client, cfg.Webhook.Path))
	}

	logger.Info("notifications configured", slog.Int("sinks", len(sinks)))
	return sinks, nil
}
