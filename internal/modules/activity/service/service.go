package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/activity/dto"
	"octofit.com/tracker/internal/modules/activity/repository"
	"octofit.com/tracker/pkg/apperror"
)

// UserFinder resolves the user an activity is recorded for.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type ActivityService interface {
	CreateActivity(ctx context.Context, req dto.CreateActivityRequest) (*entity.Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*entity.Activity, error)
	ListActivities(ctx context.Context, filter dto.ActivityFilter) ([]entity.Activity, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, req dto.UpdateActivityRequest) (*entity.Activity, error)
	PatchActivity(ctx context.Context, id uuid.UUID, req dto.PatchActivityRequest) (*entity.Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
}

type activityService struct {
	repo  repository.ActivityRepository
	users UserFinder
}

func NewActivityService(repo repository.ActivityRepository, users UserFinder) ActivityService {
	return &activityService{repo: repo, users: users}
}

// CreateActivity snapshots the user's current name. A user id that does not
// resolve is accepted as long as a user name is supplied.
func (s *activityService) CreateActivity(ctx context.Context, req dto.CreateActivityRequest) (*entity.Activity, error) {
	userName, err := s.snapshotUserName(ctx, req.UserID, req.UserName)
	if err != nil {
		return nil, err
	}

	activity := &entity.Activity{
		UserID:       req.UserID,
		UserName:     userName,
		ActivityType: req.ActivityType,
		Duration:     req.Duration,
		Distance:     req.Distance,
		Calories:     req.Calories,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) GetActivity(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("activity not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return activity, nil
}

func (s *activityService) ListActivities(ctx context.Context, filter dto.ActivityFilter) ([]entity.Activity, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *activityService) UpdateActivity(ctx context.Context, id uuid.UUID, req dto.UpdateActivityRequest) (*entity.Activity, error) {
	activity, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	activity.UserID = req.UserID
	activity.UserName = req.UserName
	activity.ActivityType = req.ActivityType
	activity.Duration = req.Duration
	activity.Distance = req.Distance
	activity.Calories = req.Calories

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) PatchActivity(ctx context.Context, id uuid.UUID, req dto.PatchActivityRequest) (*entity.Activity, error) {
	activity, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil {
		activity.UserID = *req.UserID
	}
	if req.UserName != nil {
		activity.UserName = *req.UserName
	}
	if req.ActivityType != nil {
		activity.ActivityType = *req.ActivityType
	}
	if req.Duration != nil {
		activity.Duration = *req.Duration
	}
	if req.Distance != nil {
		activity.Distance = req.Distance
	}
	if req.Calories != nil {
		activity.Calories = *req.Calories
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetActivity(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *activityService) snapshotUserName(ctx context.Context, userID, fallback string) (string, error) {
	if id, err := uuid.Parse(userID); err == nil && s.users != nil {
		user, err := s.users.FindByID(ctx, id)
		switch {
		case err == nil:
			return user.Name, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return "", err
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("user_name is required when user %s does not exist: %w", userID, apperror.ErrInvalidInput)
	}
	return fallback, nil
}
