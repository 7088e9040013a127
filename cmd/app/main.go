package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "fulfillment",
		Short:        "Order fulfillment tracker for a handmade goods shop",
		SilenceUsage: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, the messaging webhook and the scheduled jobs",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "escalate",
			Short: "Run one escalation pass and print the result",
			RunE: runOnce(func(root *cmd.CompositionRoot) (*jobs.Job, error) {
				return root.CreateEscalationJob()
			}),
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Run one carrier reconciliation pass and print the result",
			RunE: runOnce(func(root *cmd.CompositionRoot) (*jobs.Job, error) {
				return root.CreateCarrierReconciliationJob(), nil
			}),
		},
	)
	return root
}

func bootstrap(ctx context.Context) (cmd.Config, *cmd.CompositionRoot, *slog.Logger, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return cmd.Config{}, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	app, err := cmd.NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return cmd.Config{}, nil, nil, fmt.Errorf("wiring application: %w", err)
	}
	return cfg, app, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runOnce(build func(*cmd.CompositionRoot) (*jobs.Job, error)) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		_, app, _, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		job, err := build(app)
		if err != nil {
			return err
		}
		result, err := job.RunOnce(ctx)
		if err != nil {
			return err
		}
		return printResult(c, result)
	}
}

func printResult(c *cobra.Command, result commands.BatchResult) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serve(_ *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, app, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	escalation, err := app.CreateEscalationJob()
	if err != nil {
		return err
	}
	reconciliation := app.CreateCarrierReconciliationJob()

	server, err := app.CreateHTTPServer(escalation, reconciliation)
	if err != nil {
		return err
	}

	manager := jobs.NewJobManager(escalation, reconciliation)
	if err = manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	e := newEcho(cfg.LogLevel, logger)
	server.Register(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(level slog.Level, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(level))

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	return e
}

func echoLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}
