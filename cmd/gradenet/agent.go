package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/gradenet/pkg/agent"
	"github.com/cuemby/gradenet/pkg/config"
	"github.com/cuemby/gradenet/pkg/log"
	"github.com/cuemby/gradenet/pkg/metrics"
	"github.com/cuemby/gradenet/pkg/tracing"
	"github.com/cuemby/gradenet/pkg/util"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Worker agent operations",
}

var agentRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent: pull assignments, execute commands, report results",
	Long: `Run a worker agent against a YAML config file describing the
commander's NATS endpoint and remote port.

The agent subscribes to heartbeats and pulls test assignments until the
commander sends a done=true heartbeat, or until it receives SIGINT/SIGTERM.`,
	RunE: runAgent,
}

var agentWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the external IP this agent would report in heartbeats",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, _ := cmd.Flags().GetString("endpoint")
		ip, err := util.DiscoverExternalIP(endpoint)
		if err != nil {
			return fmt.Errorf("discover external ip: %w", err)
		}
		fmt.Println(ip)
		return nil
	},
}

func init() {
	agentRunCmd.Flags().StringP("config", "c", "", "Path to agent YAML config (required)")
	_ = agentRunCmd.MarkFlagRequired("config")

	agentWhoamiCmd.Flags().String("endpoint", util.DefaultExternalIPEndpoint, "Public echo endpoint to query for this host's external IP")

	agentCmd.AddCommand(agentRunCmd)
	agentCmd.AddCommand(agentWhoamiCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadAgentConfig(configPath)
	if err != nil {
		return fmt.Errorf("load agent config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:      cfg.TracingEnabled,
		ServiceName:  "gradenet-agent",
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	a, err := agent.New(cfg, tracer)
	if err != nil {
		return fmt.Errorf("build agent: %w", err)
	}

	sampler := agent.NewHostSampler()
	sampler.Start()
	defer sampler.Stop()

	metrics.SetVersion(Version)
	metrics.RegisterProbe("mq", true, func() (bool, string) {
		if a.FabricConnected() {
			return true, "connected"
		}
		return false, "nats connection not established"
	})

	stopMetrics := serveOpsEndpoint(cfg.MetricsAddr)
	defer stopMetrics()

	logger := log.WithComponent("agent")
	logger.Info().Str("manager", cfg.NATSURL).Msg("agent starting")

	return a.Run(ctx)
}
