package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/internal/telemetry"
	"github.com/marmos91/sysauth/pkg/api"
	"github.com/marmos91/sysauth/pkg/identity"
	"github.com/marmos91/sysauth/pkg/metrics"
)

var (
	serveRecords string
	serveListen  string
	serveMetrics bool

	serveOTLPEndpoint string
	serveOTLPInsecure bool
	serveSampleRate   float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference identity service",
	Long: `Serve passwd records from a YAML file over the lookup protocol.

The records file lists users and, optionally, the hosts allowed to see them:

  users:
    - name: alice
      uid: 1000
      gid: 1000
      gecos: Alice
      dir: /home/alice
      shell: /bin/bash
      hosts: [web-01]

Examples:
  sysauth serve --records /etc/sysauth/records.yaml --listen :8443`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRecords, "records", "", "YAML file with the passwd records to serve")
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "Address to listen on")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().StringVar(&serveOTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for traces (empty disables tracing)")
	serveCmd.Flags().BoolVar(&serveOTLPInsecure, "otlp-insecure", true, "Connect to the OTLP endpoint without TLS")
	serveCmd.Flags().Float64Var(&serveSampleRate, "trace-sample-rate", 1.0, "Fraction of requests to trace (0.0 to 1.0)")
	_ = serveCmd.MarkFlagRequired("records")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cmdutil.InitLogger("INFO"); err != nil {
		return err
	}

	store, err := identity.LoadFile(serveRecords)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var reg *prometheus.Registry
	if serveMetrics {
		reg = metrics.InitRegistry()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Enabled = serveOTLPEndpoint != ""
	telemetryCfg.Endpoint = serveOTLPEndpoint
	telemetryCfg.Insecure = serveOTLPInsecure
	telemetryCfg.SampleRate = serveSampleRate
	telemetryCfg.ServiceVersion = Version

	shutdownTracing, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", logger.Err(err))
		}
	}()

	srv := api.NewServer(api.APIConfig{Listen: serveListen}, store, reg)

	logger.Info("Starting identity service",
		"listen", serveListen,
		"records", store.Count(),
		"metrics", serveMetrics,
		"tracing", telemetryCfg.Enabled,
	)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("Identity service stopped")
	return nil
}
