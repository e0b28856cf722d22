package dto

// UserFilter holds the list query. Search matches name, email or team.
type UserFilter struct {
	Search string `form:"search"`
	Team   string `form:"team"`
}

type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email,max=254"`
	Password string  `json:"password" binding:"required,max=128"`
	Team     *string `json:"team" binding:"omitnil,max=100"`
}

// UpdateUserRequest replaces the user. An empty password keeps the stored one
// and a null team clears it.
type UpdateUserRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email,max=254"`
	Password string  `json:"password" binding:"max=128"`
	Team     *string `json:"team" binding:"omitnil,max=100"`
}

// PatchUserRequest changes only the fields present in the body.
type PatchUserRequest struct {
	Name     *string `json:"name" binding:"omitnil,min=1,max=100"`
	Email    *string `json:"email" binding:"omitnil,email,max=254"`
	Password *string `json:"password" binding:"omitnil,min=1,max=128"`
	Team     *string `json:"team" binding:"omitnil,max=100"`
}
