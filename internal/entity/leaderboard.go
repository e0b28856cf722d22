package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leaderboard is a derived row. A recompute replaces the whole table.
type Leaderboard struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"size:100;index;not null" json:"user_id"`
	UserName        string    `gorm:"size:100;not null" json:"user_name"`
	Team            string    `gorm:"size:100;index" json:"team"`
	TotalCalories   int       `gorm:"not null;default:0" json:"total_calories"`
	TotalActivities int       `gorm:"not null;default:0" json:"total_activities"`
	Rank            int       `gorm:"not null;index" json:"rank"`
}

func (Leaderboard) TableName() string {
	return "leaderboard"
}

func (l *Leaderboard) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}
