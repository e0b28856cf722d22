package dto

type WorkoutFilter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
}

// WorkoutSearchQuery is the full text query served by the search index.
type WorkoutSearchQuery struct {
	Q          string `form:"q"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
	Limit      int64  `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// WorkoutRequest is used by create and full update.
type WorkoutRequest struct {
	Name               string `json:"name" binding:"required,max=100"`
	Description        string `json:"description"`
	Category           string `json:"category" binding:"max=50"`
	Difficulty         string `json:"difficulty" binding:"max=20"`
	Duration           int    `json:"duration" binding:"gte=0"`
	CaloriesPerSession int    `json:"calories_per_session" binding:"gte=0"`
}

type PatchWorkoutRequest struct {
	Name               *string `json:"name" binding:"omitnil,min=1,max=100"`
	Description        *string `json:"description"`
	Category           *string `json:"category" binding:"omitnil,max=50"`
	Difficulty         *string `json:"difficulty" binding:"omitnil,max=20"`
	Duration           *int    `json:"duration" binding:"omitnil,gte=0"`
	CaloriesPerSession *int    `json:"calories_per_session" binding:"omitnil,gte=0"`
}
