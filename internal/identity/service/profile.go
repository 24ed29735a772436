package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/account/repository"
	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/telemetry"
)

// CompleteProfile creates the submitted services in order and attaches them, the address and
// the coordinates to the professional's account. Calling it on a completed profile returns the
// account unchanged. Either every service and the account update persist, or none do.
func (s *RegistrationService) CompleteProfile(ctx context.Context, accountID string, req CompleteProfileRequest) (*domain.Account, error) {
	if accountID == "" {
		return nil, invalid("account_id", "is required")
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(accountKey(accountID))
	defer unlock()

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, dependency("account_repository", err, "operation", "get_by_id", "account_id", accountID)
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	if acct.Role != domain.RoleProfessional {
		return nil, ErrNotProfessional
	}
	if acct.ProfileCompleted {
		return acct, nil
	}

	now := s.now()
	services := make([]*domain.Service, len(req.Services))
	ids := make([]string, len(req.Services))
	for i, in := range req.Services {
		services[i] = &domain.Service{
			ID:             uuid.New().String(),
			ProfessionalID: accountID,
			Name:           in.Name,
			Type:           in.Type,
			Rate:           in.Rate,
			Description:    in.Description,
			Position:       i,
			CreatedAt:      now,
		}
		ids[i] = services[i].ID
	}
	profile := domain.Profile{
		Address:    req.Address,
		Location:   req.Location,
		ServiceIDs: ids,
		UpdatedAt:  now,
	}

	if pc, ok := s.accounts.(repository.ProfileCompleter); ok {
		err = pc.CompleteProfile(ctx, accountID, profile, services)
	} else {
		err = s.completeWithCompensation(ctx, accountID, profile, services)
	}
	if errors.Is(err, domain.ErrProfileAlreadyCompleted) {
		current, gerr := s.accounts.GetByID(ctx, accountID)
		if gerr != nil {
			return nil, dependency("account_repository", gerr, "operation", "get_by_id", "account_id", accountID)
		}
		if current == nil {
			return nil, ErrAccountNotFound
		}
		return current, nil
	}
	if err != nil {
		s.metrics.ProfileCompleted(observability.OutcomeFailure)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, dependency("account_repository", fmt.Errorf("%w: %w", ErrServiceCreationFailed, err),
			"operation", "complete_profile", "account_id", accountID, "services", len(services))
	}

	acct.Address = profile.Address
	acct.Location = profile.Location
	acct.ServicesOffered = ids
	acct.ProfileCompleted = true
	acct.UpdatedAt = now

	s.metrics.ProfileCompleted(observability.OutcomeSuccess)
	s.logger.Info("profile completed",
		zap.String("account_id", accountID),
		zap.Int("services", len(services)))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventProfileCompleted).
		WithAccount(accountID, string(acct.Role)).
		With("services", fmt.Sprint(len(services))))
	return acct, nil
}

// completeWithCompensation is used for repositories without transactions: services created
// before a failure are deleted again.
func (s *RegistrationService) completeWithCompensation(ctx context.Context, accountID string, p domain.Profile, services []*domain.Service) error {
	for i, svc := range services {
		if err := s.accounts.CreateService(ctx, svc); err != nil {
			s.deleteServices(ctx, services[:i])
			return err
		}
	}
	if err := s.accounts.UpdateProfile(ctx, accountID, p); err != nil {
		s.deleteServices(ctx, services)
		return err
	}
	return nil
}

func (s *RegistrationService) deleteServices(ctx context.Context, services []*domain.Service) {
	ctx = context.WithoutCancel(ctx)
	for _, svc := range services {
		if err := s.accounts.DeleteService(ctx, svc.ID); err != nil {
			s.logger.Error("compensating service delete failed",
				zap.String("service_id", svc.ID),
				zap.String("account_id", svc.ProfessionalID),
				zap.Error(err))
		}
	}
}
