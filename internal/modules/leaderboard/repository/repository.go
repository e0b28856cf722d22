package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
)

type LeaderboardRepository interface {
	Create(ctx context.Context, entry *entity.Leaderboard) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Leaderboard, error)
	// FindAll orders by calories, then rank. Both orders agree after a
	// recompute; calories win when direct writes made them disagree.
	FindAll(ctx context.Context, team string) ([]entity.Leaderboard, error)
	Update(ctx context.Context, entry *entity.Leaderboard) error
	Delete(ctx context.Context, id uuid.UUID) error
	RenameTeam(ctx context.Context, from, to string) error
	// ReplaceAll clears the table and inserts entries in one transaction.
	ReplaceAll(ctx context.Context, entries []entity.Leaderboard) error
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Create(ctx context.Context, entry *entity.Leaderboard) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *leaderboardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Leaderboard, error) {
	var entry entity.Leaderboard
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *leaderboardRepository) FindAll(ctx context.Context, team string) ([]entity.Leaderboard, error) {
	entries := []entity.Leaderboard{}
	query := r.db.WithContext(ctx)

	if team != "" {
		query = query.Where("team = ?", team)
	}

	if err := query.Order("total_calories DESC").Order("rank ASC").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *leaderboardRepository) Update(ctx context.Context, entry *entity.Leaderboard) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *leaderboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Leaderboard{}, "id = ?", id).Error
}

func (r *leaderboardRepository) RenameTeam(ctx context.Context, from, to string) error {
	return r.db.WithContext(ctx).Model(&entity.Leaderboard{}).Where("team = ?", from).Update("team", to).Error
}

func (r *leaderboardRepository) ReplaceAll(ctx context.Context, entries []entity.Leaderboard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent rebuilds queue here instead of interleaving their
		// delete and insert statements. Plain reads are not blocked.
		if err := tx.Exec("LOCK TABLE " + entity.Leaderboard{}.TableName() + " IN EXCLUSIVE MODE").Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Leaderboard{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 100).Error
	})
}
