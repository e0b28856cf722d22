package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	search "octofit.com/tracker/internal/modules/search/service"
	"octofit.com/tracker/internal/modules/workout/dto"
	"octofit.com/tracker/internal/modules/workout/repository"
	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/logger"
)

const defaultSearchLimit = 20

type WorkoutService interface {
	CreateWorkout(ctx context.Context, req dto.WorkoutRequest) (*entity.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*entity.Workout, error)
	ListWorkouts(ctx context.Context, filter dto.WorkoutFilter) ([]entity.Workout, error)
	// SearchWorkouts uses the search index when one is configured and falls
	// back to the database list search otherwise.
	SearchWorkouts(ctx context.Context, query dto.WorkoutSearchQuery) ([]entity.Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, req dto.WorkoutRequest) (*entity.Workout, error)
	PatchWorkout(ctx context.Context, id uuid.UUID, req dto.PatchWorkoutRequest) (*entity.Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
}

type workoutService struct {
	repo      repository.WorkoutRepository
	index     search.WorkoutIndex
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewWorkoutService builds the service. index may be nil.
func NewWorkoutService(repo repository.WorkoutRepository, index search.WorkoutIndex, log *zap.Logger) WorkoutService {
	return &workoutService{
		repo:      repo,
		index:     index,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.OrNop(log).Named("workout"),
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, req dto.WorkoutRequest) (*entity.Workout, error) {
	workout := &entity.Workout{}
	s.apply(workout, req)

	if err := s.repo.Create(ctx, workout); err != nil {
		return nil, err
	}
	s.reindex(*workout)
	return workout, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, id uuid.UUID) (*entity.Workout, error) {
	workout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workout not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, filter dto.WorkoutFilter) ([]entity.Workout, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *workoutService) SearchWorkouts(ctx context.Context, query dto.WorkoutSearchQuery) ([]entity.Workout, error) {
	fallback := dto.WorkoutFilter{Search: query.Q, Category: query.Category, Difficulty: query.Difficulty}
	if s.index == nil {
		return s.repo.FindAll(ctx, fallback)
	}

	limit := query.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	ids, err := s.index.SearchWorkoutIDs(query.Q, search.WorkoutSearchFilter{
		Category:   query.Category,
		Difficulty: query.Difficulty,
	}, limit)
	if err != nil {
		s.logger.Warn("search index unavailable, using database search", zap.Error(err))
		return s.repo.FindAll(ctx, fallback)
	}

	return s.loadInOrder(ctx, ids)
}

// loadInOrder fetches workouts by id keeping the index ranking. Ids the
// database no longer knows are skipped.
func (s *workoutService) loadInOrder(ctx context.Context, ids []string) ([]entity.Workout, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			parsed = append(parsed, u)
		}
	}

	found, err := s.repo.FindByIDs(ctx, parsed)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]entity.Workout, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}

	ordered := make([]entity.Workout, 0, len(found))
	for _, id := range parsed {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}
	return ordered, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, id uuid.UUID, req dto.WorkoutRequest) (*entity.Workout, error) {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	s.apply(workout, req)

	if err := s.repo.Update(ctx, workout); err != nil {
		return nil, err
	}
	s.reindex(*workout)
	return workout, nil
}

func (s *workoutService) PatchWorkout(ctx context.Context, id uuid.UUID, req dto.PatchWorkoutRequest) (*entity.Workout, error) {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		workout.Name = *req.Name
	}
	if req.Description != nil {
		workout.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Category != nil {
		workout.Category = *req.Category
	}
	if req.Difficulty != nil {
		workout.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		workout.Duration = *req.Duration
	}
	if req.CaloriesPerSession != nil {
		workout.CaloriesPerSession = *req.CaloriesPerSession
	}

	if err := s.repo.Update(ctx, workout); err != nil {
		return nil, err
	}
	s.reindex(*workout)
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetWorkout(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteWorkout(id.String()); err != nil {
			s.logger.Warn("failed to remove workout from index", zap.Error(err))
		}
	}
	return nil
}

func (s *workoutService) apply(workout *entity.Workout, req dto.WorkoutRequest) {
	workout.Name = req.Name
	workout.Description = s.sanitizer.Sanitize(req.Description)
	workout.Category = req.Category
	workout.Difficulty = req.Difficulty
	workout.Duration = req.Duration
	workout.CaloriesPerSession = req.CaloriesPerSession
}

// reindex keeps the index in step with the database. The index is a
// secondary copy, so failures are only logged.
func (s *workoutService) reindex(workout entity.Workout) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexWorkouts(workout); err != nil {
		s.logger.Warn("failed to index workout", zap.String("workout_id", workout.ID.String()), zap.Error(err))
	}
}
