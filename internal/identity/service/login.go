package service

import (
	"context"

	"go.uber.org/zap"

	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/telemetry"
)

// Login checks email and password and opens a session. Unknown email and wrong password are
// indistinguishable. Professionals are refused with ErrProfileIncomplete until their profile is
// completed; the profile check runs after the password check.
func (s *RegistrationService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	acct, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, dependency("account_repository", err, "operation", "get_by_email")
	}
	if acct == nil {
		s.hasher.CompareDummy(req.Password)
		s.loginFailed(ctx, "", "", observability.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(acct.PasswordHash, req.Password); err != nil {
		s.loginFailed(ctx, acct.ID, string(acct.Role), observability.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}
	if acct.LoginBlocked() {
		s.loginFailed(ctx, acct.ID, string(acct.Role), observability.OutcomeProfileIncomplete)
		return nil, ErrProfileIncomplete
	}

	result, err := s.newSession(acct)
	if err != nil {
		return nil, err
	}
	s.metrics.Login(observability.OutcomeSuccess)
	s.logger.Debug("login succeeded", zap.String("account_id", acct.ID))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventLoginSucceeded).
		WithAccount(acct.ID, string(acct.Role)))
	return result, nil
}

func (s *RegistrationService) loginFailed(ctx context.Context, accountID, role, outcome string) {
	s.metrics.Login(outcome)
	s.emit(ctx, telemetry.NewEvent(telemetry.EventLoginFailed).
		WithAccount(accountID, role).
		With("reason", outcome))
}
