package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/leaderboard/dto"
	"octofit.com/tracker/internal/modules/leaderboard/repository"
	"octofit.com/tracker/internal/observability"
	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/events"
	"octofit.com/tracker/pkg/lock"
	"octofit.com/tracker/pkg/logger"
)

const (
	// RecomputeLockKey names the single-writer guard around clear+rebuild.
	RecomputeLockKey = "leaderboard:recompute"
	// EventRecomputed is published after every committed rebuild.
	EventRecomputed = "leaderboard.recomputed"
)

// UserLister returns every user in insertion order.
type UserLister interface {
	ListAll(ctx context.Context) ([]entity.User, error)
}

// ActivityLister is the bulk read side of the activity store.
type ActivityLister interface {
	ListAll(ctx context.Context) ([]entity.Activity, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Activity, error)
}

// RecomputedPayload is the body of an EventRecomputed event.
type RecomputedPayload struct {
	Entries    []entity.Leaderboard `json:"entries"`
	ComputedAt time.Time            `json:"computed_at"`
}

type LeaderboardService interface {
	// Aggregate returns the totals recorded for userID. Unknown and deleted
	// users are not an error.
	Aggregate(ctx context.Context, userID string) (*Totals, error)
	// Recompute rebuilds the whole leaderboard and returns the new rows in
	// rank order. It fails with apperror.ErrRecomputeInProgress while another
	// recompute holds the lock.
	Recompute(ctx context.Context) ([]entity.Leaderboard, error)

	Create(ctx context.Context, req dto.LeaderboardRequest) (*entity.Leaderboard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Leaderboard, error)
	List(ctx context.Context, filter dto.LeaderboardFilter) ([]entity.Leaderboard, error)
	Update(ctx context.Context, id uuid.UUID, req dto.LeaderboardRequest) (*entity.Leaderboard, error)
	Patch(ctx context.Context, id uuid.UUID, req dto.PatchLeaderboardRequest) (*entity.Leaderboard, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type leaderboardService struct {
	repo       repository.LeaderboardRepository
	users      UserLister
	activities ActivityLister
	locker     lock.Locker
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewLeaderboardService(
	repo repository.LeaderboardRepository,
	users UserLister,
	activities ActivityLister,
	locker lock.Locker,
	publisher events.Publisher,
	log *zap.Logger,
) LeaderboardService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &leaderboardService{
		repo:       repo,
		users:      users,
		activities: activities,
		locker:     locker,
		publisher:  publisher,
		logger:     logger.OrNop(log).Named("leaderboard"),
	}
}

func (s *leaderboardService) Aggregate(ctx context.Context, userID string) (*Totals, error) {
	activities, err := s.activities.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities for user %s: %w", userID, err)
	}
	totals := Aggregate(activities, userID)
	return &totals, nil
}

func (s *leaderboardService) Recompute(ctx context.Context) ([]entity.Leaderboard, error) {
	release, err := s.locker.TryAcquire(ctx, RecomputeLockKey)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			observability.RecordRecompute(observability.ResultConflict, 0, 0)
			s.logger.Warn("recompute rejected, another run holds the lock")
			return nil, apperror.ErrRecomputeInProgress
		}
		observability.RecordRecompute(observability.ResultError, 0, 0)
		return nil, err
	}
	defer func() {
		// The lock must be released even when the caller's context is gone.
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release recompute lock", zap.Error(err))
		}
	}()

	start := time.Now()
	entries, err := s.rebuild(ctx)
	if err != nil {
		observability.RecordRecompute(observability.ResultError, 0, 0)
		s.logger.Error("leaderboard recompute failed", zap.Error(err))
		return nil, err
	}
	elapsed := time.Since(start)
	observability.RecordRecompute(observability.ResultOK, len(entries), elapsed)
	s.logger.Info("leaderboard recomputed",
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", elapsed),
	)

	s.publishRecomputed(ctx, entries)
	return entries, nil
}

func (s *leaderboardService) rebuild(ctx context.Context) ([]entity.Leaderboard, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	activities, err := s.activities.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	entries := Rank(users, activities)
	if err := s.repo.ReplaceAll(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to replace leaderboard: %w", err)
	}
	return entries, nil
}

// publishRecomputed runs after the rebuild committed, so failures are only logged.
func (s *leaderboardService) publishRecomputed(ctx context.Context, entries []entity.Leaderboard) {
	now := time.Now().UTC()
	event := events.Event{
		Name:       EventRecomputed,
		Key:        "leaderboard",
		OccurredAt: now,
		Payload:    RecomputedPayload{Entries: entries, ComputedAt: now},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish recompute event", zap.Error(err))
	}
}

func (s *leaderboardService) Create(ctx context.Context, req dto.LeaderboardRequest) (*entity.Leaderboard, error) {
	entry := &entity.Leaderboard{}
	applyRequest(entry, req)

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *leaderboardService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Leaderboard, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("leaderboard entry not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return entry, nil
}

func (s *leaderboardService) List(ctx context.Context, filter dto.LeaderboardFilter) ([]entity.Leaderboard, error) {
	return s.repo.FindAll(ctx, filter.Team)
}

func (s *leaderboardService) Update(ctx context.Context, id uuid.UUID, req dto.LeaderboardRequest) (*entity.Leaderboard, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(entry, req)

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *leaderboardService) Patch(ctx context.Context, id uuid.UUID, req dto.PatchLeaderboardRequest) (*entity.Leaderboard, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil {
		entry.UserID = *req.UserID
	}
	if req.UserName != nil {
		entry.UserName = *req.UserName
	}
	if req.Team != nil {
		entry.Team = *req.Team
	}
	if req.TotalCalories != nil {
		entry.TotalCalories = *req.TotalCalories
	}
	if req.TotalActivities != nil {
		entry.TotalActivities = *req.TotalActivities
	}
	if req.Rank != nil {
		entry.Rank = *req.Rank
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *leaderboardService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func applyRequest(entry *entity.Leaderboard, req dto.LeaderboardRequest) {
	entry.UserID = req.UserID
	entry.UserName = req.UserName
	entry.Team = req.Team
	entry.TotalCalories = req.TotalCalories
	entry.TotalActivities = req.TotalActivities
	entry.Rank = req.Rank
}
