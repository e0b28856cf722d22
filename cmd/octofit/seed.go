package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"octofit.com/tracker/internal/bootstrap"
	"octofit.com/tracker/internal/server"
)

var (
	seedValue   uint64
	seedIfEmpty bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo dataset",
	Long: `Delete every user, team, activity, workout and leaderboard row, then
write the demo dataset: Team Marvel and Team DC with six heroes each, 5 to 15
random activities per hero, the workout catalog, and a freshly computed
leaderboard. Every demo user has the password "password123".

EXAMPLES:

  octofit seed                # Random activities
  octofit seed --seed 42      # Reproducible activities
  octofit seed --if-empty     # Only seed a database without users`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := seedValue
		if seed == 0 {
			seed = bootstrap.DefaultSeed()
		}

		services := server.NewServices(infra)
		seeder := bootstrap.NewSeeder(infra.DB, services.Leaderboard, infra.WorkoutIndex, seed, log)

		if seedIfEmpty {
			result, ran, err := seeder.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			if !ran {
				fmt.Println("Database already has users, nothing to do.")
				return nil
			}
			printSeedSummary(os.Stdout, result)
			return nil
		}

		result, err := seeder.Seed(cmd.Context())
		if err != nil {
			return err
		}
		printSeedSummary(os.Stdout, result)
		return nil
	},
}

func init() {
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed for generated activities (0 picks one)")
	seedCmd.Flags().BoolVar(&seedIfEmpty, "if-empty", false, "skip when users already exist")
}

func printSeedSummary(w io.Writer, result *bootstrap.SeedResult) {
	green := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	green.Fprintln(w, "Database populated with test data")
	rows := []struct {
		label string
		count int64
	}{
		{"Users", result.Users},
		{"Teams", result.Teams},
		{"Activities", result.Activities},
		{"Workouts", result.Workouts},
		{"Leaderboard entries", result.Leaderboard},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %d\n", faint.Sprint(padRight(r.label+":", 21)), r.count)
	}
}
