package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"octofit.com/tracker/internal/config"
	"octofit.com/tracker/internal/server"
	"octofit.com/tracker/pkg/logger"
)

var (
	log   *zap.Logger
	infra *server.Infra
)

var rootCmd = &cobra.Command{
	Use:   "octofit",
	Short: "OctoFit fitness tracker backend",
	Long: `OctoFit tracks users, teams, activities and workouts, and ranks users
on a leaderboard by the calories they have burned.

COMMANDS:

  octofit serve       # Run the HTTP API (default when no command is given)
  octofit seed        # Replace all data with the demo heroes dataset
  octofit recompute   # Rebuild the leaderboard once and print it

CONFIGURATION:

  Settings come from environment variables, optionally loaded from .env:
  DB_HOST, DB_USER, DB_PASS, DB_NAME, DB_PORT, PORT, REDIS_URL,
  KAFKA_BROKERS, MEILISEARCH_HOST, LEADERBOARD_CRON, SEED_ON_START.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log, err = logger.New(cfg.AppEnv)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		infra, err = server.OpenInfra(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize infrastructure: %w", err)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, recomputeCmd)
}
