package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/server"
)

var recomputeLimit int

var recomputeCmd = &cobra.Command{
	Use:     "recompute",
	Aliases: []string{"rank"},
	Short:   "Rebuild the leaderboard and print it",
	Long: `Rebuild the leaderboard from the stored users and activities and
print the new ranking. Fails when another recompute is already running.

EXAMPLES:

  octofit recompute          # Print the full ranking
  octofit recompute -n 5     # Print the top five`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services := server.NewServices(infra)

		rows, err := services.Leaderboard.Recompute(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to recompute leaderboard: %w", err)
		}

		if recomputeLimit > 0 && len(rows) > recomputeLimit {
			rows = rows[:recomputeLimit]
		}
		printRanking(os.Stdout, rows)
		return nil
	},
}

func init() {
	recomputeCmd.Flags().IntVarP(&recomputeLimit, "limit", "n", 0, "only print the top n rows")
}

func printRanking(w io.Writer, rows []entity.Leaderboard) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No users to rank.")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	gold := color.New(color.FgYellow, color.Bold)

	bold.Fprintf(w, "%s %s %s %s %s\n",
		padRight("RANK", 5), padRight("USER", 24), padRight("TEAM", 16), padRight("CALORIES", 9), "ACTIVITIES")
	for _, row := range rows {
		rank := padRight(fmt.Sprintf("#%d", row.Rank), 5)
		if row.Rank == 1 {
			rank = gold.Sprint(rank)
		}
		team := row.Team
		if team == "" {
			team = "-"
		}
		fmt.Fprintf(w, "%s %s %s %s %d\n",
			rank,
			padRight(truncate(row.UserName, 24), 24),
			faint.Sprint(padRight(truncate(team, 16), 16)),
			padRight(fmt.Sprint(row.TotalCalories), 9),
			row.TotalActivities)
	}
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
