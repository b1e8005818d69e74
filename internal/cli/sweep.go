package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crmd/internal/api"
	"crmd/internal/config"
	"crmd/internal/sweep"
)

// NewSweepCommand creates the sweep command group: one-shot invocations of
// the heartbeat probe, restock sweep, and reminder sweep against a running
// server. Useful for external cron-style schedulers and for debugging.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one consistency sweep against a running server",
	}

	cmd.AddCommand(newHeartbeatCommand(rootOpts))
	cmd.AddCommand(newRestockCommand(rootOpts))
	cmd.AddCommand(newRemindersCommand(rootOpts))

	return cmd
}

func newHeartbeatCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "heartbeat",
		Short:         "Probe the API and append a liveness line to the sink",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, out, err := sweepSetup(rootOpts, cmd)
			if err != nil {
				return err
			}

			probe := sweep.NewHeartbeat(client, sweep.NewSink(cfg.HeartbeatSink), nil)
			status := probe.Run(cmd.Context())
			if !status.Responsive {
				out.Error("TRANSPORT_UNAVAILABLE", status.Reason)
				return WrapExitError(ExitFailure, "api unresponsive", fmt.Errorf("%s", status.Reason))
			}
			return out.Success(status)
		},
	}
}

func newRestockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "restock",
		Short:         "Raise under-threshold product stock to the configured floor",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, out, err := sweepSetup(rootOpts, cmd)
			if err != nil {
				return err
			}

			s := sweep.NewRestock(client, sweep.NewSink(cfg.RestockSink), nil, cfg.RestockThreshold, cfg.RestockTarget)
			updated, err := s.Run(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "restock sweep", err)
			}
			return out.Success(map[string]any{"updated": updated, "count": len(updated)})
		},
	}
}

func newRemindersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reminders",
		Short:         "Scan stale pending orders and append reminder lines to the sink",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, out, err := sweepSetup(rootOpts, cmd)
			if err != nil {
				return err
			}

			s := sweep.NewReminder(client, sweep.NewSink(cfg.ReminderSink), nil, cfg.ReminderWindowDays)
			orders, err := s.Run(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "reminder sweep", err)
			}
			return out.Success(map[string]any{"orders": orders, "count": len(orders)})
		},
	}
}

// sweepSetup loads config and builds the shared API client and formatter.
func sweepSetup(rootOpts *RootOptions, cmd *cobra.Command) (*config.Config, *api.Client, *OutputFormatter, error) {
	cfg, err := config.Load(rootOpts.ConfigFile)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "load config", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	out := &OutputFormatter{
		Format:  rootOpts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: rootOpts.Verbose,
	}
	return cfg, client, out, nil
}
