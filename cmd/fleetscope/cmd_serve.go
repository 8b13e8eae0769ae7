package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/lyric-engineering/fleetscope/aggregator"
	"github.com/lyric-engineering/fleetscope/api"
	"github.com/lyric-engineering/fleetscope/config"
	"github.com/lyric-engineering/fleetscope/provision"
	"github.com/lyric-engineering/fleetscope/storage"
	"github.com/lyric-engineering/fleetscope/telemetry"

	// Register the provider collectors.
	_ "github.com/lyric-engineering/fleetscope/providers/aws"
	_ "github.com/lyric-engineering/fleetscope/providers/azure"
	_ "github.com/lyric-engineering/fleetscope/providers/gcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inventory HTTP API",
	Long: `Run the FleetScope HTTP API: snapshot queries, on-demand collection
and the provisioning flow, plus a Prometheus metrics endpoint.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	telemetry.SetGlobalLevel(cfg.Log.Level)
	logger := telemetry.NewLogger("fleetscope")

	promExporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter))
	otel.SetMeterProvider(provider)

	metrics, err := telemetry.InitCollectionMetrics(provider.Meter("fleetscope"))
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("connect snapshot store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("failed to close snapshot store")
		}
	}()

	agg := aggregator.New(cfg).WithMetrics(metrics)

	provisioner, publisher, err := buildProvisioner(cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(store, agg, nil)
	if provisioner != nil {
		server = api.NewServer(store, agg, provisioner).WithCommittedLister(publisher)
	} else {
		logger.Warn().Msg("provision.github_repo not set, provisioning endpoints disabled")
	}
	app := server.App(cfg.Server.CORSOrigins)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var group run.Group

	group.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	group.Add(func() error {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting HTTP API")
		return app.Listen(cfg.Server.Addr)
	}, func(error) {
		_ = app.Shutdown()
	})

	group.Add(func() error {
		logger.Info().Str("addr", cfg.Server.MetricsAddr).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	})

	err = group.Run()
	if _, ok := err.(run.SignalError); ok {
		logger.Info().Msg("shutting down")
		return nil
	}
	return err
}

// buildProvisioner wires the GitOps publisher and chat notifier from
// configuration and ambient tokens. Returns nil collaborators when no
// repository is configured, so inventory-only deployments can still serve.
func buildProvisioner(cfg *config.Config) (*provision.Provisioner, *provision.Publisher, error) {
	if cfg.Provision.GitHubRepo == "" {
		return nil, nil, nil
	}
	publisher, err := provision.NewPublisher(
		os.Getenv("GITHUB_TOKEN"),
		cfg.Provision.GitHubRepo,
		cfg.Provision.GitHubBranch,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create manifest publisher: %w", err)
	}
	notifier := provision.NewNotifier(os.Getenv("SLACK_TOKEN"), cfg.Provision.SlackChannel)
	return provision.NewProvisioner(publisher, notifier), publisher, nil
}
