package dto

type CreateTeamRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// UpdateTeamRequest replaces name, description and the cached member list.
type UpdateTeamRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

type PatchTeamRequest struct {
	Name        *string   `json:"name" binding:"omitnil,min=1,max=100"`
	Description *string   `json:"description"`
	Members     *[]string `json:"members"`
}

// TeamStats summarises a team from the current leaderboard rows.
type TeamStats struct {
	Team            string   `json:"team"`
	Members         []string `json:"members"`
	RankedMembers   int      `json:"ranked_members"`
	TotalCalories   int      `json:"total_calories"`
	TotalActivities int      `json:"total_activities"`
	MeanCalories    float64  `json:"mean_calories"`
	MedianCalories  float64  `json:"median_calories"`
	BestRank        int      `json:"best_rank,omitempty"`
	TopMember       string   `json:"top_member,omitempty"`
}
