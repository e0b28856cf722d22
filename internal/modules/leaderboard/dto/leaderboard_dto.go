package dto

import "octofit.com/tracker/internal/entity"

// LeaderboardFilter narrows the list to a single team.
type LeaderboardFilter struct {
	Team string `form:"team"`
}

// LeaderboardRequest is a direct row write. Rows written this way are
// overwritten by the next recompute.
type LeaderboardRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	UserName        string `json:"user_name" binding:"required"`
	Team            string `json:"team"`
	TotalCalories   int    `json:"total_calories" binding:"gte=0"`
	TotalActivities int    `json:"total_activities" binding:"gte=0"`
	Rank            int    `json:"rank" binding:"required,gte=1"`
}

// PatchLeaderboardRequest carries only the fields to change.
type PatchLeaderboardRequest struct {
	UserID          *string `json:"user_id" binding:"omitnil,min=1"`
	UserName        *string `json:"user_name" binding:"omitnil,min=1"`
	Team            *string `json:"team"`
	TotalCalories   *int    `json:"total_calories" binding:"omitnil,gte=0"`
	TotalActivities *int    `json:"total_activities" binding:"omitnil,gte=0"`
	Rank            *int    `json:"rank" binding:"omitnil,gte=1"`
}

// RecomputeResponse is returned by the recompute endpoint.
type RecomputeResponse struct {
	Data  []entity.Leaderboard `json:"data"`
	Count int                  `json:"count"`
}
