package domain

import "time"

// User models an account record. RoleID references a Role by id and is only
// checked against the roles collection when it is written.
type User struct {
	ID         string
	Username   string
	Password   string
	Email      string
	FullName   string
	AvatarURL  string
	Status     bool
	RoleID     string
	LoginCount int
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PopulatedUser is a user together with its resolved role. Role is nil when
// the reference could not be resolved or points at a soft-deleted role.
type PopulatedUser struct {
	User *User
	Role *Role
}
