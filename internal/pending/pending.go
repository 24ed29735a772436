// Package pending holds professional registrations that have not been promoted to an account yet.
package pending

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL bounds how long an abandoned registration is kept.
const DefaultTTL = 24 * time.Hour

var (
	// ErrAlreadyStarted is returned by Begin when a record exists and replace is false.
	ErrAlreadyStarted = errors.New("pending: registration already started")
	// ErrNotStarted is returned by BindPhone when there is no record for the email.
	ErrNotStarted = errors.New("pending: registration not started")
	// ErrNotFound is returned by Get and Take when there is no record for the email.
	ErrNotFound = errors.New("pending: registration not found")
)

// Registration is an in-progress professional sign-up keyed by email.
type Registration struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}

// Store holds pending registrations.
type Store interface {
	// Begin inserts reg. An existing record is overwritten when replace is true, else ErrAlreadyStarted.
	Begin(ctx context.Context, reg Registration, replace bool) error
	// BindPhone attaches phone to the record for email.
	BindPhone(ctx context.Context, email, phone string) error
	// Get returns a copy of the record for email without removing it.
	Get(ctx context.Context, email string) (*Registration, error)
	// Take removes and returns the record for email. Exactly one concurrent caller succeeds.
	Take(ctx context.Context, email string) (*Registration, error)
	// Restore puts back a record previously removed by Take.
	Restore(ctx context.Context, reg Registration) error
}
