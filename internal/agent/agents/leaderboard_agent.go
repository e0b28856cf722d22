package agents

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/logger"
)

// Recomputer is the part of the leaderboard service the agent drives.
type Recomputer interface {
	Recompute(ctx context.Context) ([]entity.Leaderboard, error)
}

// LeaderboardAgent rebuilds the leaderboard on a schedule.
type LeaderboardAgent struct {
	recomputer Recomputer
	schedule   string
	logger     *zap.Logger
}

func NewLeaderboardAgent(recomputer Recomputer, schedule string, log *zap.Logger) *LeaderboardAgent {
	return &LeaderboardAgent{
		recomputer: recomputer,
		schedule:   schedule,
		logger:     logger.OrNop(log),
	}
}

func (a *LeaderboardAgent) GetName() string { return "leaderboard-recompute" }

func (a *LeaderboardAgent) GetSchedule() string { return a.schedule }

// Execute runs one recompute. A run already in progress elsewhere is not a
// failure for a scheduled tick.
func (a *LeaderboardAgent) Execute(ctx context.Context) error {
	entries, err := a.recomputer.Recompute(ctx)
	if errors.Is(err, apperror.ErrRecomputeInProgress) {
		a.logger.Info("scheduled recompute skipped, another run is in progress")
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Debug("scheduled recompute finished", zap.Int("entries", len(entries)))
	return nil
}
