package types

import "time"

// User represents an account in the system.
// It contains identity, profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. Unique across all accounts
	// and used as the login identifier.
	Email string `json:"email" db:"email"`

	// Avatar is the object-storage key of the user's avatar image.
	// Empty when no avatar has been uploaded.
	Avatar string `json:"avatar,omitempty" db:"avatar"`

	// Role indicates the user's global authorization level
	// (e.g., "admin", "user"). Project-level permissions are carried
	// by ProjectMember, not this field.
	Role string `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the reduced user shape embedded in project, issue,
// and comment responses.
type UserSummary struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Summary returns the embeddable summary of the user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
