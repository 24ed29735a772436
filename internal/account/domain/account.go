package domain

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateEmail is returned by repositories when the email is already used by another account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by repository updates that match no account.
	ErrNotFound = errors.New("account not found")
	// ErrProfileAlreadyCompleted is returned by CompleteProfile when another writer completed the profile first.
	ErrProfileAlreadyCompleted = errors.New("profile already completed")
)

// Role is the kind of account.
type Role string

const (
	RoleProfessional Role = "professional"
	RoleCustomer     Role = "customer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleProfessional || r == RoleCustomer
}

// Location is a coordinate pair in degrees.
type Location struct {
	Longitude float64
	Latitude  float64
}

// Account is a marketplace account. Email is unique across all accounts.
type Account struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Phone            string // set for professionals once the phone is verified
	Role             Role
	ProfileCompleted bool
	Address          string
	Location         *Location
	ServicesOffered  []string // service ids in submission order
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if !a.Role.Valid() {
		return errors.New("role must be professional or customer")
	}
	return nil
}

// LoginBlocked reports whether the account may not log in yet: professionals need a completed profile.
func (a *Account) LoginBlocked() bool {
	return a.Role == RoleProfessional && !a.ProfileCompleted
}

// Service is an offering attached to a professional's profile.
type Service struct {
	ID             string
	ProfessionalID string
	Name           string
	Type           string
	Rate           float64
	Description    string
	Position       int // order within the profile submission
	CreatedAt      time.Time
}

// Profile is the data attached by profile completion.
type Profile struct {
	Address    string
	Location   *Location
	ServiceIDs []string
	UpdatedAt  time.Time
}
