package domain

import "time"

// UserRole is the sole authorization signal stored per user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

// User is an identity record. The ID is an opaque identifier assigned by
// the external identity provider; this service never creates credentials.
type User struct {
	ID        string
	Email     string
	Role      UserRole
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == UserRoleAdmin }

// UserWithCount pairs a user with the number of inspections they own.
// Derived for admin listings, never persisted.
type UserWithCount struct {
	User
	InspectionCount int
}
