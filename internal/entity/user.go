package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Team         *string   `gorm:"size:100;index" json:"team"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index;<-:create" json:"created_at"`
}

// BeforeCreate assigns a time-ordered id, so id order follows insertion order.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}

// TeamName returns the team name or "" when the user has none.
func (u *User) TeamName() string {
	if u.Team == nil {
		return ""
	}
	return *u.Team
}
