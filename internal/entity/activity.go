package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conventional activity types. ActivityType is an open string; any value is stored as is.
const (
	ActivityRunning       = "Running"
	ActivityCycling       = "Cycling"
	ActivitySwimming      = "Swimming"
	ActivityWeightlifting = "Weightlifting"
	ActivityYoga          = "Yoga"
	ActivityBoxing        = "Boxing"
)

// Activity is a recorded session. UserID is a plain string reference: it is
// not a foreign key and may outlive the user it points at. UserName is a
// snapshot taken when the activity was recorded.
type Activity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"size:100;index;not null" json:"user_id"`
	UserName     string    `gorm:"size:100;not null" json:"user_name"`
	ActivityType string    `gorm:"size:50;index;not null" json:"activity_type"`
	Duration     int       `gorm:"not null;check:duration > 0" json:"duration"`
	Distance     *float64  `json:"distance"`
	Calories     int       `gorm:"not null;check:calories > 0" json:"calories"`
	Date         time.Time `gorm:"autoCreateTime;index;<-:create" json:"date"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// IsDistanceBased reports whether distance is meaningful for the activity type.
func IsDistanceBased(activityType string) bool {
	switch activityType {
	case ActivityRunning, ActivityCycling, ActivitySwimming:
		return true
	}
	return false
}
