package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crmd/internal/api"
	"crmd/internal/config"
	"crmd/internal/engine"
	"crmd/internal/store"
	"crmd/internal/sweep"
)

// NewServeCommand creates the serve command: the API server plus the sweep
// scheduler in one process.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the sweep scheduler",
		Long: `Run the API server and the sweep scheduler.

The heartbeat probe, restock sweep, and reminder sweep run on their
configured intervals and re-enter the API as ordinary clients.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "init logger", err)
	}
	defer log.Sync()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	eng := engine.New(st)
	server := api.NewServer(eng, st, log)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sweeps go through the API boundary, not the store.
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	heartbeat := sweep.NewHeartbeat(client, sweep.NewSink(cfg.HeartbeatSink), log)
	restock := sweep.NewRestock(client, sweep.NewSink(cfg.RestockSink), log, cfg.RestockThreshold, cfg.RestockTarget)
	reminder := sweep.NewReminder(client, sweep.NewSink(cfg.ReminderSink), log, cfg.ReminderWindowDays)

	scheduler := sweep.NewScheduler(log)
	scheduler.Add("heartbeat", cfg.HeartbeatInterval, func(ctx context.Context) error {
		heartbeat.Run(ctx) // probe failures are data, never scheduler errors
		return nil
	})
	scheduler.Add("restock", cfg.RestockInterval, func(ctx context.Context) error {
		_, err := restock.Run(ctx)
		return err
	})
	scheduler.Add("reminders", cfg.ReminderInterval, func(ctx context.Context) error {
		_, err := reminder.Run(ctx)
		return err
	})
	go scheduler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Info("serving", zap.String("addr", cfg.ListenAddr), zap.String("db", cfg.DBPath))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitFailure, "shutdown", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitFailure, "server", err)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
