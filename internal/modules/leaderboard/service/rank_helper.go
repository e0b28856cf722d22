package service

import (
	"cmp"
	"slices"

	"octofit.com/tracker/internal/entity"
)

// Totals is the per-user aggregate over recorded activities.
type Totals struct {
	UserID          string `json:"user_id"`
	TotalCalories   int    `json:"total_calories"`
	TotalActivities int    `json:"total_activities"`
}

// Aggregate sums calories and counts activities recorded for userID.
// Activities of other users are ignored, input order does not matter and a
// user without activities yields zero totals.
func Aggregate(activities []entity.Activity, userID string) Totals {
	totals := Totals{UserID: userID}
	for _, a := range activities {
		if a.UserID != userID {
			continue
		}
		totals.TotalCalories += a.Calories
		totals.TotalActivities++
	}
	return totals
}

// Rank builds one leaderboard row per user, sorted by total calories
// descending. users must be in insertion order: the sort is stable, so among
// equal totals the earlier user keeps the lower rank. Ranks are row numbers
// starting at 1 and never shared.
func Rank(users []entity.User, activities []entity.Activity) []entity.Leaderboard {
	if len(users) == 0 {
		return []entity.Leaderboard{}
	}

	// Keyed by the id string so orphaned activities are simply never looked up.
	byUser := make(map[string]*Totals, len(users))
	for _, a := range activities {
		t, ok := byUser[a.UserID]
		if !ok {
			t = &Totals{UserID: a.UserID}
			byUser[a.UserID] = t
		}
		t.TotalCalories += a.Calories
		t.TotalActivities++
	}

	entries := make([]entity.Leaderboard, 0, len(users))
	for _, u := range users {
		id := u.ID.String()
		entry := entity.Leaderboard{
			UserID:   id,
			UserName: u.Name,
			Team:     u.TeamName(),
		}
		if t, ok := byUser[id]; ok {
			entry.TotalCalories = t.TotalCalories
			entry.TotalActivities = t.TotalActivities
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b entity.Leaderboard) int {
		return cmp.Compare(b.TotalCalories, a.TotalCalories)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
