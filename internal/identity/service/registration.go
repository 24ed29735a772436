package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/notify"
	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/otp"
	"craftconnect/backend/internal/pending"
	"craftconnect/backend/internal/telemetry"
)

// RegisterProfessional records a pending professional registration. No account is created
// until the phone is verified.
func (s *RegistrationService) RegisterProfessional(ctx context.Context, req RegisterRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	unlock := s.locks.Lock(emailKey(req.Email))
	defer unlock()

	existing, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return dependency("account_repository", err, "operation", "get_by_email")
	}
	if existing != nil {
		return ErrEmailTaken
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return oops.In("hasher").Wrap(err)
	}
	reg := pending.Registration{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.pending.Begin(ctx, reg, s.policy != DuplicateReject); err != nil {
		if errors.Is(err, pending.ErrAlreadyStarted) {
			return ErrRegistrationPending
		}
		return dependency("pending_store", err, "operation", "begin")
	}

	s.logger.Info("professional registration started", zap.String("email", req.Email))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventRegistrationStarted).
		WithAccount("", string(domain.RoleProfessional)))
	return nil
}

// SendOTP issues a code for phone, delivers it and binds the phone to the pending registration.
// A failed delivery leaves the challenge live and the phone unbound.
func (s *RegistrationService) SendOTP(ctx context.Context, req SendOTPRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	unlock := s.locks.Lock(emailKey(req.Email))
	defer unlock()

	if _, err := s.pending.Get(ctx, req.Email); err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			return ErrNoEmailStep
		}
		return dependency("pending_store", err, "operation", "get")
	}

	challenge, err := s.otps.Issue(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, otp.ErrAlreadyPending) {
			s.metrics.OTPIssued(observability.OutcomeRejected)
			return ErrAlreadyPending
		}
		return dependency("otp_store", err, "operation", "issue")
	}
	if s.devOTP != nil {
		s.devOTP.Put(ctx, req.Phone, challenge.Code, challenge.ExpiresAt)
	}

	if err := s.notifier.Send(ctx, req.Phone, notify.OTPMessage(challenge.Code)); err != nil {
		s.metrics.OTPIssued(observability.OutcomeFailure)
		s.logger.Warn("otp delivery failed",
			zap.String("phone", notify.MaskPhone(req.Phone)),
			zap.Error(err))
		return dependency("notifier", fmt.Errorf("%w: %w", ErrNotifyFailed, err),
			"phone", notify.MaskPhone(req.Phone))
	}

	if err := s.pending.BindPhone(ctx, req.Email, req.Phone); err != nil {
		if errors.Is(err, pending.ErrNotStarted) {
			return ErrNoEmailStep
		}
		return dependency("pending_store", err, "operation", "bind_phone")
	}

	s.metrics.OTPIssued(observability.OutcomeSuccess)
	s.logger.Info("otp sent",
		zap.String("email", req.Email),
		zap.String("phone", notify.MaskPhone(req.Phone)),
		zap.Time("expires_at", challenge.ExpiresAt))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventOTPIssued).
		With("phone", notify.MaskPhone(req.Phone)))
	return nil
}

// VerifyOTP checks the code sent to the bound phone, promotes the pending registration to a
// professional account (profile incomplete) and opens a session. Concurrent calls for one
// email promote it at most once.
func (s *RegistrationService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(emailKey(req.Email))
	defer unlock()

	reg, err := s.pending.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			s.metrics.OTPVerified(observability.OutcomeInvalid)
			return nil, ErrInvalidOrExpired
		}
		return nil, dependency("pending_store", err, "operation", "get")
	}
	if reg.Phone == "" {
		s.metrics.OTPVerified(observability.OutcomeInvalid)
		return nil, ErrInvalidOrExpired
	}

	if err := s.otps.Verify(ctx, reg.Phone, req.Code); err != nil {
		if errors.Is(err, otp.ErrInvalidOrExpired) {
			s.metrics.OTPVerified(observability.OutcomeInvalid)
			return nil, ErrInvalidOrExpired
		}
		return nil, dependency("otp_store", err, "operation", "verify")
	}

	taken, err := s.pending.Take(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			s.metrics.OTPVerified(observability.OutcomeInvalid)
			return nil, ErrInvalidOrExpired
		}
		return nil, dependency("pending_store", err, "operation", "take")
	}
	if s.devOTP != nil {
		s.devOTP.Delete(ctx, taken.Phone)
	}
	s.metrics.OTPVerified(observability.OutcomeSuccess)
	s.emit(ctx, telemetry.NewEvent(telemetry.EventOTPVerified).
		With("phone", notify.MaskPhone(taken.Phone)))

	now := s.now()
	acct := &domain.Account{
		ID:               newAccountID(),
		Name:             taken.Name,
		Email:            taken.Email,
		PasswordHash:     taken.PasswordHash,
		Phone:            taken.Phone,
		Role:             domain.RoleProfessional,
		ProfileCompleted: false,
		ServicesOffered:  []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	result, err := s.newSession(acct)
	if err != nil {
		s.restorePending(ctx, *taken)
		return nil, err
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.restorePending(ctx, *taken)
		return nil, dependency("account_repository", err, "operation", "create", "email", acct.Email)
	}

	s.metrics.AccountCreated(string(acct.Role))
	s.logger.Info("professional account created",
		zap.String("account_id", acct.ID),
		zap.String("email", acct.Email))
	s.emit(ctx, telemetry.NewEvent(telemetry.EventAccountCreated).
		WithAccount(acct.ID, string(acct.Role)))
	return result, nil
}

// restorePending puts a taken registration back after a failed promotion. The code has been
// consumed, so the caller must request a new one.
func (s *RegistrationService) restorePending(ctx context.Context, reg pending.Registration) {
	if err := s.pending.Restore(context.WithoutCancel(ctx), reg); err != nil {
		s.logger.Error("restore pending registration failed",
			zap.String("email", reg.Email),
			zap.Error(err))
	}
}
