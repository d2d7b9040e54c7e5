package model

import "time"

// Access levels stored in users.access_level.
const (
	AccessLevelStandard = "Standard"
	AccessLevelAdmin    = "Admin"
)

type User struct {
	ID          string     `json:"userId"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Phone       string     `json:"phone,omitempty"`
	Active      bool       `json:"-"`
	AccessLevel string     `json:"accessLevel"`
	CreatedAt   time.Time  `json:"-"`
	DeletedAt   *time.Time `json:"-"`
}

// IsAdmin returns true if the user may manage the product catalog.
func (u *User) IsAdmin() bool {
	return u.Active && u.AccessLevel == AccessLevelAdmin
}

// Credentials holds the password material kept apart from the profile row.
type Credentials struct {
	UserID           string
	PasswordHash     string
	FailedLoginCount int
	LastLoginAt      *time.Time
}
