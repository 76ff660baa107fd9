package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	httphandler "github.com/ericfisherdev/spexpiry/internal/adapter/driving/http"
	"github.com/ericfisherdev/spexpiry/internal/application"
	"github.com/ericfisherdev/spexpiry/internal/config"
	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errRunFailed signals a completed run whose directory fetch failed.
var errRunFailed = errors.New("check run failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			slog.Error("fatal error", "error", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "spexpiry",
		Short:         "Warns a Teams channel about expiring Entra ID application credentials",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runEntry())
	root.AddCommand(scanEntry())
	root.AddCommand(serveEntry())
	root.AddCommand(versionEntry())

	return root
}

func runEntry() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check all applications once and send warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := buildCheckService(cfg, nil)
			if err != nil {
				return err
			}

			report := svc.Run(ctx, model.Trigger{Source: "cli"})
			if !report.OK() {
				return errRunFailed
			}
			return nil
		},
	}
}

func scanEntry() *cobra.Command {
	format := "table"

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List credentials due for a warning today without sending anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := buildPreviewService(cfg)

			expiring, apps, err := svc.Preview(ctx)
			if err != nil {
				return fmt.Errorf("scanning applications: %w", err)
			}

			return printExpiring(cmd.OutOrStdout(), format, expiring, apps)
		},
	}

	cmd.Flags().StringVar(&format, "format", format, "Output format: table, json")

	return cmd
}

func serveEntry() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Functions custom-handler endpoint and API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func versionEntry() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadConfig loads and validates configuration, then installs the default
// logger.
func loadConfig(needWebhook bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(needWebhook); err != nil {
		return nil, err
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"tenant_id", cfg.TenantID,
		"graph_base_url", cfg.GraphBaseURL,
		"listen_addr", cfg.ListenAddr,
		"run_interval", cfg.RunInterval,
		"concurrency", cfg.Concurrency,
		"github_sink", cfg.HasGitHubSink(),
	)

	return cfg, nil
}

func serve(parent context.Context, cfg *config.Config) error {
	// 1. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Metrics registry shared by the run recorder and HTTP middleware.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 3. Wire adapters and the check service.
	svc, err := buildCheckService(cfg, reg)
	if err != nil {
		return err
	}

	// 4. Optional in-process timer; the Functions host usually triggers runs.
	// RunOnStart alone gives a single start-up run.
	if cfg.RunInterval > 0 || cfg.RunOnStart {
		scheduler := application.NewScheduler(svc, cfg.RunInterval, cfg.RunOnStart)
		go scheduler.Start(ctx)
	}

	// 5. HTTP server.
	apiHandler := httphandler.NewHandler(svc, slog.Default())
	router := httphandler.NewRouter(apiHandler, cfg.FunctionName, reg, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A run fetches every application and posts every warning.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr, "function", cfg.FunctionName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("spexpiry started",
		"version", version,
		"listen_addr", cfg.ListenAddr,
		"run_interval", cfg.RunInterval,
	)

	// 6. Wait for shutdown signal or listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// 7. Graceful shutdown with 10s timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
