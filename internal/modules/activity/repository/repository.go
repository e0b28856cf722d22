package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/activity/dto"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error)
	FindAll(ctx context.Context, filter dto.ActivityFilter) ([]entity.Activity, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Activity, error)
	ListAll(ctx context.Context) ([]entity.Activity, error)
	Update(ctx context.Context, activity *entity.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	var activity entity.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) FindAll(ctx context.Context, filter dto.ActivityFilter) ([]entity.Activity, error) {
	activities := []entity.Activity{}
	query := r.db.WithContext(ctx)

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ActivityType != "" {
		query = query.Where("activity_type = ?", filter.ActivityType)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("user_name ILIKE ? OR activity_type ILIKE ?", like, like)
	}

	if err := query.Order("date DESC").Order("id DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Activity, error) {
	return r.FindAll(ctx, dto.ActivityFilter{UserID: userID})
}

func (r *activityRepository) ListAll(ctx context.Context) ([]entity.Activity, error) {
	return r.FindAll(ctx, dto.ActivityFilter{})
}

func (r *activityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Activity{}, "id = ?", id).Error
}
