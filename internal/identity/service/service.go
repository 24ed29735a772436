// Package service implements professional and customer onboarding: the multi-step professional
// registration (email, phone OTP, account, profile), single-step customer registration and login.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/account/repository"
	"craftconnect/backend/internal/devotp"
	"craftconnect/backend/internal/notify"
	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/otp"
	"craftconnect/backend/internal/pending"
	"craftconnect/backend/internal/security"
	"craftconnect/backend/internal/telemetry"
)

// DuplicatePolicy decides what RegisterProfessional does when a pending registration already
// exists for the email.
type DuplicatePolicy string

const (
	// DuplicateReplace overwrites the pending registration.
	DuplicateReplace DuplicatePolicy = "replace"
	// DuplicateReject fails with ErrRegistrationPending.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy parses a policy name; empty selects DuplicateReplace.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DuplicateReplace:
		return DuplicateReplace, nil
	case DuplicateReject:
		return DuplicateReject, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want replace or reject)", s)
	}
}

// AuthResult is returned by the operations that open a session.
type AuthResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// Option configures a RegistrationService.
type Option func(*RegistrationService)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *RegistrationService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventEmitter sets the lifecycle event sink.
func WithEventEmitter(e telemetry.EventEmitter) Option {
	return func(s *RegistrationService) { s.events = e }
}

// WithMetrics sets the counters updated on every transition.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *RegistrationService) { s.metrics = m }
}

// WithDevOTPStore records every issued code in store so it can be read back in dev OTP mode.
func WithDevOTPStore(store devotp.Store) Option {
	return func(s *RegistrationService) { s.devOTP = store }
}

// WithDuplicatePolicy sets the duplicate pending registration policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(s *RegistrationService) { s.policy = p }
}

// WithClock overrides the time source for account timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *RegistrationService) { s.nowF = now }
}

// RegistrationService drives the onboarding state machine. Every operation that touches
// registration state holds a per-email lock; profile completion holds a per-account lock.
type RegistrationService struct {
	accounts repository.Repository
	pending  pending.Store
	otps     otp.Store
	notifier notify.Notifier
	hasher   *security.Hasher
	tokens   *security.TokenProvider

	devOTP  devotp.Store
	policy  DuplicatePolicy
	logger  *zap.Logger
	events  telemetry.EventEmitter
	metrics *observability.Metrics
	locks   *keyLock
	nowF    func() time.Time
}

// NewRegistrationService returns a RegistrationService with the given collaborators.
func NewRegistrationService(
	accounts repository.Repository,
	pendingStore pending.Store,
	otpStore otp.Store,
	notifier notify.Notifier,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	opts ...Option,
) *RegistrationService {
	s := &RegistrationService{
		accounts: accounts,
		pending:  pendingStore,
		otps:     otpStore,
		notifier: notifier,
		hasher:   hasher,
		tokens:   tokens,
		policy:   DuplicateReplace,
		logger:   zap.NewNop(),
		locks:    newKeyLock(),
		nowF:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emailKey(email string) string { return "email:" + email }

func accountKey(id string) string { return "account:" + id }

func (s *RegistrationService) now() time.Time { return s.nowF().UTC() }

func (s *RegistrationService) emit(ctx context.Context, e *telemetry.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, e); err != nil {
		s.logger.Debug("lifecycle event dropped", zap.String("event_type", e.Type), zap.Error(err))
	}
}

// newSession issues the session token for a not yet persisted account, so a signing failure
// never leaves an account that nobody can authenticate as.
func (s *RegistrationService) newSession(acct *domain.Account) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(acct.ID, string(acct.Role))
	if err != nil {
		return nil, dependency("token_provider", err, "account_id", acct.ID)
	}
	return &AuthResult{Account: acct, Token: token, ExpiresAt: expiresAt}, nil
}

func newAccountID() string { return uuid.New().String() }
