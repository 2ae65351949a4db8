package model

import "time"

// Role is the access level carried by an authenticated user.  It is
// stored in users.role and in the "role" claim of access tokens.
type Role string

const (
	RoleRegular Role = "regular"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRegular, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r is allowed to act on reservations it does not own.
func (r Role) IsStaff() bool { return r == RoleManager || r == RoleAdmin }

// UserStatus mirrors users.status.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspend"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended:
		return true
	}
	return false
}

// User mirrors the users table.  PasswordHash never leaves the
// repository/auth layers; responses use a separate view.
type User struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserSummary is the trimmed user shape embedded in other responses.
type UserSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Actor is the already-authenticated caller of a service operation.
type Actor struct {
	ID   uint64
	Role Role
}

// RefreshToken models a row of refresh_tokens.  Only the SHA-256 hash of
// the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// UserPatch lists the fields an administrator may change on a user.  Nil
// fields are left untouched.
type UserPatch struct {
	ID     uint64      `json:"id"`
	Name   *string     `json:"name,omitempty"`
	Phone  *string     `json:"phone,omitempty"`
	Role   *Role       `json:"role,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Role == nil && p.Status == nil
}

// Summary returns the trimmed view of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
