package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Workout is a static catalog entry with no relation to Activity.
type Workout struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	Description        string    `gorm:"type:text" json:"description"`
	Category           string    `gorm:"size:50;index" json:"category"`
	Difficulty         string    `gorm:"size:20;index" json:"difficulty"`
	Duration           int       `gorm:"not null" json:"duration"`
	CaloriesPerSession int       `gorm:"not null" json:"calories_per_session"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID, err = uuid.NewV7()
	}
	return
}
