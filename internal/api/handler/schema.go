package handler

import "time"

// --- Requests ---

type createRoleRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updateRoleRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

type createUserRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"fullName"`
	AvatarURL  string `json:"avatarUrl"`
	Status     bool   `json:"status"`
	Role       string `json:"role"`
	LoginCount int    `json:"loginCount" validate:"min=0"`
}

type updateUserRequest struct {
	Username   *string `json:"username" validate:"omitnil,min=1"`
	Password   *string `json:"password" validate:"omitnil,min=1"`
	Email      *string `json:"email" validate:"omitnil,email"`
	FullName   *string `json:"fullName"`
	AvatarURL  *string `json:"avatarUrl"`
	Status     *bool   `json:"status"`
	Role       *string `json:"role"`
	LoginCount *int    `json:"loginCount" validate:"omitnil,min=0"`
}

type activateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// --- Responses ---

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// userResponse never carries the password. Role is null when the reference
// could not be resolved; RoleID always holds the stored reference.
type userResponse struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	FullName   string        `json:"fullName"`
	AvatarURL  string        `json:"avatarUrl"`
	Status     bool          `json:"status"`
	Role       *roleResponse `json:"role"`
	RoleID     string        `json:"roleId,omitempty"`
	LoginCount int           `json:"loginCount"`
	IsDeleted  bool          `json:"isDeleted"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type healthResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
