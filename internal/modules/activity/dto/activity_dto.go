package dto

type ActivityFilter struct {
	UserID       string `form:"user_id"`
	ActivityType string `form:"activity_type"`
	Search       string `form:"search"`
}

// CreateActivityRequest records a session. UserName is only used when
// UserID does not resolve to a stored user.
type CreateActivityRequest struct {
	UserID       string   `json:"user_id" binding:"required,max=100"`
	UserName     string   `json:"user_name" binding:"max=100"`
	ActivityType string   `json:"activity_type" binding:"required,max=50"`
	Duration     int      `json:"duration" binding:"required,gt=0"`
	Distance     *float64 `json:"distance" binding:"omitnil,gte=0"`
	Calories     int      `json:"calories" binding:"required,gt=0"`
}

// UpdateActivityRequest replaces every mutable field. Date cannot change.
type UpdateActivityRequest struct {
	UserID       string   `json:"user_id" binding:"required,max=100"`
	UserName     string   `json:"user_name" binding:"required,max=100"`
	ActivityType string   `json:"activity_type" binding:"required,max=50"`
	Duration     int      `json:"duration" binding:"required,gt=0"`
	Distance     *float64 `json:"distance" binding:"omitnil,gte=0"`
	Calories     int      `json:"calories" binding:"required,gt=0"`
}

type PatchActivityRequest struct {
	UserID       *string  `json:"user_id" binding:"omitnil,min=1,max=100"`
	UserName     *string  `json:"user_name" binding:"omitnil,min=1,max=100"`
	ActivityType *string  `json:"activity_type" binding:"omitnil,min=1,max=50"`
	Duration     *int     `json:"duration" binding:"omitnil,gt=0"`
	Distance     *float64 `json:"distance" binding:"omitnil,gte=0"`
	Calories     *int     `json:"calories" binding:"omitnil,gt=0"`
}
