package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Team struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Members     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"members"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;<-:create" json:"created_at"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	if t.Members == nil {
		t.Members = pq.StringArray{}
	}
	return
}

// AddMember appends name unless it is already listed. It reports whether
// the member list changed.
func (t *Team) AddMember(name string) bool {
	if name == "" || slices.Contains(t.Members, name) {
		return false
	}
	t.Members = append(t.Members, name)
	return true
}

// RemoveMember drops every occurrence of name and reports whether the list changed.
func (t *Team) RemoveMember(name string) bool {
	before := len(t.Members)
	t.Members = slices.DeleteFunc(t.Members, func(m string) bool { return m == name })
	return len(t.Members) != before
}
