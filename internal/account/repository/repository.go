package repository

import (
	"context"

	"craftconnect/backend/internal/account/domain"
)

// Repository defines persistence for accounts and their services.
// GetByID and GetByEmail return nil, nil when no account matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create persists a. Returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, a *domain.Account) error
	// UpdateProfile sets address, location and service ids and marks the profile completed.
	// Returns domain.ErrNotFound when no account has id.
	UpdateProfile(ctx context.Context, id string, p domain.Profile) error
	CreateService(ctx context.Context, s *domain.Service) error
	DeleteService(ctx context.Context, id string) error
	// ListServices returns the services of a professional ordered by position.
	ListServices(ctx context.Context, professionalID string) ([]*domain.Service, error)
}

// ProfileCompleter is implemented by repositories that can create the services and update the
// account in one transaction.
type ProfileCompleter interface {
	CompleteProfile(ctx context.Context, accountID string, p domain.Profile, services []*domain.Service) error
}
