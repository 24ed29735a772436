package service

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/telemetry"
)

// RegisterCustomer creates a customer account in one step and opens a session.
// Customers have no profile to complete.
func (s *RegistrationService) RegisterCustomer(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(emailKey(req.Email))
	defer unlock()

	existing, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, dependency("account_repository", err, "operation", "get_by_email")
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.In("hasher").Wrap(err)
	}
	now := s.now()
	acct := &domain.Account{
		ID:               newAccountID(),
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     hash,
		Role:             domain.RoleCustomer,
		ProfileCompleted: true,
		ServicesOffered:  []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	result, err := s.newSession(acct)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, dependency("account_repository", err, "operation", "create", "email", acct.Email)
	}

	s.metrics.AccountCreated(string(acct.Role))
	s.logger.Info("customer account created",
		zap.String("account_id", acct.ID),
		zap.String("email", acct.Email))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventAccountCreated).
		WithAccount(acct.ID, string(acct.Role)))
	return result, nil
}
