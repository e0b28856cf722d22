package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/pkg/events"
)

// memoryStore backs the user, activity and leaderboard sides of the service.
type memoryStore struct {
	users      []entity.User
	activities []entity.Activity
	rows       []entity.Leaderboard
	replaceErr error
	replaces   int
}

func (m *memoryStore) addUser(name, team string) entity.User {
	u := entity.User{ID: uuid.Must(uuid.NewV7()), Name: name, Email: name + "@octofit.test"}
	if team != "" {
		u.Team = &team
	}
	m.users = append(m.users, u)
	return u
}

func (m *memoryStore) addActivity(userID string, calories int) {
	m.activities = append(m.activities, entity.Activity{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       userID,
		ActivityType: entity.ActivityRunning,
		Duration:     30,
		Calories:     calories,
	})
}

func (m *memoryStore) deleteUser(id uuid.UUID) {
	m.users = slices.DeleteFunc(m.users, func(u entity.User) bool { return u.ID == id })
}

type memoryUsers struct{ *memoryStore }

func (m memoryUsers) ListAll(context.Context) ([]entity.User, error) {
	return slices.Clone(m.users), nil
}

type memoryActivities struct{ *memoryStore }

func (m memoryActivities) ListAll(context.Context) ([]entity.Activity, error) {
	return slices.Clone(m.activities), nil
}

func (m memoryActivities) FindByUserID(_ context.Context, userID string) ([]entity.Activity, error) {
	var out []entity.Activity
	for _, a := range m.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memoryLeaderboard struct{ *memoryStore }

func (m memoryLeaderboard) Create(_ context.Context, entry *entity.Leaderboard) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.Must(uuid.NewV7())
	}
	m.rows = append(m.rows, *entry)
	return nil
}

func (m memoryLeaderboard) FindByID(_ context.Context, id uuid.UUID) (*entity.Leaderboard, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memoryLeaderboard) FindAll(_ context.Context, team string) ([]entity.Leaderboard, error) {
	out := []entity.Leaderboard{}
	for _, r := range m.rows {
		if team == "" || r.Team == team {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m memoryLeaderboard) Update(_ context.Context, entry *entity.Leaderboard) error {
	for i := range m.rows {
		if m.rows[i].ID == entry.ID {
			m.rows[i] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m memoryLeaderboard) Delete(_ context.Context, id uuid.UUID) error {
	m.rows = slices.DeleteFunc(m.rows, func(r entity.Leaderboard) bool { return r.ID == id })
	return nil
}

func (m memoryLeaderboard) RenameTeam(_ context.Context, from, to string) error {
	for i := range m.rows {
		if m.rows[i].Team == from {
			m.rows[i].Team = to
		}
	}
	return nil
}

func (m memoryLeaderboard) ReplaceAll(_ context.Context, entries []entity.Leaderboard) error {
	m.replaces++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rows = slices.Clone(entries)
	return nil
}

type capturePublisher struct {
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func (c *capturePublisher) Close() error { return nil }
