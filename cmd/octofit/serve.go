package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"octofit.com/tracker/internal/agent"
	"octofit.com/tracker/internal/agent/agents"
	"octofit.com/tracker/internal/bootstrap"
	"octofit.com/tracker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API on $PORT.

When SEED_ON_START=true and the database has no users, the demo dataset is
written before the server starts listening. When LEADERBOARD_CRON is set,
the leaderboard is recomputed on that schedule.

EXAMPLES:

  octofit serve
  LEADERBOARD_CRON="@every 5m" octofit serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := infra.Config
	services := server.NewServices(infra)

	if cfg.SeedOnStart {
		seeder := bootstrap.NewSeeder(infra.DB, services.Leaderboard, infra.WorkoutIndex, bootstrap.DefaultSeed(), log)
		if _, _, err := seeder.SeedIfEmpty(ctx); err != nil {
			return err
		}
	}

	if cfg.LeaderboardCron != "" {
		scheduler := agent.NewScheduler(log)
		if err := scheduler.RegisterAgent(agents.NewLeaderboardAgent(services.Leaderboard, cfg.LeaderboardCron, log)); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewServer(infra, services).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
