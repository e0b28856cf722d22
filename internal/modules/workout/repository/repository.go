package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/workout/dto"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *entity.Workout) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Workout, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Workout, error)
	FindAll(ctx context.Context, filter dto.WorkoutFilter) ([]entity.Workout, error)
	Update(ctx context.Context, workout *entity.Workout) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type workoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, workout *entity.Workout) error {
	return r.db.WithContext(ctx).Create(workout).Error
}

func (r *workoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Workout, error) {
	var workout entity.Workout
	if err := r.db.WithContext(ctx).First(&workout, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *workoutRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Workout, error) {
	workouts := []entity.Workout{}
	if len(ids) == 0 {
		return workouts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) FindAll(ctx context.Context, filter dto.WorkoutFilter) ([]entity.Workout, error) {
	workouts := []entity.Workout{}
	query := r.db.WithContext(ctx)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", like, like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	if err := query.Order("id ASC").Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) Update(ctx context.Context, workout *entity.Workout) error {
	return r.db.WithContext(ctx).Save(workout).Error
}

func (r *workoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Workout{}, "id = ?", id).Error
}
