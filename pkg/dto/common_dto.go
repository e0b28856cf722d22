package dto

// IDRequest binds the :id path parameter shared by every resource.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// SearchFilter is the ?search= query shared by list endpoints.
type SearchFilter struct {
	Search string `form:"search"`
}

// APIRoot lists the collection endpoints.
type APIRoot struct {
	Users       string `json:"users"`
	Teams       string `json:"teams"`
	Activities  string `json:"activities"`
	Leaderboard string `json:"leaderboard"`
	Workouts    string `json:"workouts"`
}
