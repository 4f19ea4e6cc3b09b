package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cuemby/gradenet/pkg/commander"
	"github.com/cuemby/gradenet/pkg/config"
	"github.com/cuemby/gradenet/pkg/events"
	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/tracing"
)

var commanderCmd = &cobra.Command{
	Use:   "commander",
	Short: "Commander node operations",
}

var commanderRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the commander: dispatch assignments and collect results",
	Long: `Run the commander against a YAML config file describing its NATS
endpoint, test/common directories, command file, and timeouts.

The commander blocks until every assignment reaches a terminal state, or
until it receives SIGINT/SIGTERM.`,
	RunE: runCommander,
}

func init() {
	commanderRunCmd.Flags().StringP("config", "c", "", "Path to commander YAML config (required)")
	_ = commanderRunCmd.MarkFlagRequired("config")

	commanderStatusCmd.Flags().StringP("config", "c", "", "Path to commander YAML config (required)")
	_ = commanderStatusCmd.MarkFlagRequired("config")

	commanderCmd.AddCommand(commanderRunCmd)
	commanderCmd.AddCommand(commanderStatusCmd)
}

func runCommander(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadCommanderConfig(configPath)
	if err != nil {
		return fmt.Errorf("load commander config: %w", err)
	}

	ctx := context.Background()
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:      cfg.TracingEnabled,
		ServiceName:  "gradenet-commander",
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = tracer.Shutdown(ctx) }()

	logger := log.WithComponent("commander")

	callbacks := commander.Callbacks{
		OnSuccess:         func(key string) { logger.Info().Str("key", key).Msg("assignment finished") },
		OnFailure:         func(key string) { logger.Warn().Str("key", key).Msg("assignment failed") },
		OnClientConnected: func(ip string) { logger.Info().Str("ip", ip).Msg("worker connected") },
		OnClientTimeout:   func(ip string) { logger.Warn().Str("ip", ip).Msg("worker timed out") },
	}

	c, err := commander.New(cfg, callbacks, tracer)
	if err != nil {
		return fmt.Errorf("build commander: %w", err)
	}

	metrics.SetVersion(Version)
	metrics.RegisterProbe("mq", true, func() (bool, string) {
		if c.FabricConnected() {
			return true, "connected"
		}
		return false, "nats connection not established"
	})
	metrics.RegisterProbe("registry", true, func() (bool, string) {
		notAssigned, inFlight, finished, exhausted := c.Registry().Counts()
		total := c.Registry().TotalAssignments()
		return true, fmt.Sprintf("total=%d not_assigned=%d in_flight=%d finished=%d exhausted=%d done=%v",
			total, notAssigned, inFlight, finished, exhausted, c.Registry().Done())
	})

	stopMetrics := serveOpsEndpoint(cfg.MetricsAddr)
	defer stopMetrics()

	sub := c.Events().Subscribe()
	defer c.Events().Unsubscribe(sub)
	go logEvents(logger, sub)

	start := time.Now()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- c.Run() }()

	var runErr error
	select {
	case <-sigCh:
		logger.Info().Msg("received interrupt, shutting down")
		c.Close()
	case runErr = <-runErrCh:
	}

	notAssigned, inFlight, finished, exhausted := c.Registry().Counts()
	logger.Info().
		Int("total", c.Registry().TotalAssignments()).
		Int("finished", finished).
		Int("exhausted", exhausted).
		Int("not_assigned", notAssigned).
		Int("in_flight", inFlight).
		Dur("duration", time.Since(start)).
		Msg("run summary")

	return runErr
}

var commanderStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of assignment progress for a commander config",
	Long: `Derive a point-in-time snapshot of assignment progress from the
filesystem (test directory key count, results directory file count) without
connecting to a live commander process — the assignment registry itself is
in-memory and does not outlive the commander that built it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.LoadCommanderConfig(configPath)
		if err != nil {
			return fmt.Errorf("load commander config: %w", err)
		}

		snap, err := commander.SnapshotFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}

		fmt.Printf("Assignments: %d\n", snap.Total)
		fmt.Printf("Finished:    %d\n", snap.Finished)
		fmt.Printf("Remaining:   %d\n", snap.Total-snap.Finished)
		return nil
	},
}

// serveOpsEndpoint starts the metrics/health HTTP server used by both the
// commander and agent entry points and returns a func to shut it down.
func serveOpsEndpoint(addr string) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("ops endpoint error")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// logEvents drains sub and logs each event at debug level until the
// subscription is closed by Unsubscribe.
func logEvents(logger zerolog.Logger, sub events.Subscriber) {
	for ev := range sub {
		logger.Debug().Str("type", string(ev.Type)).Str("message", ev.Message).Msg("event")
	}
}
