package service

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Sentinel errors for the registration service; the handler maps them to gRPC codes via KindOf.
var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrRegistrationPending   = errors.New("registration already in progress for this email")
	ErrNoEmailStep           = errors.New("start with email registration first")
	ErrAlreadyPending        = errors.New("OTP already sent; please wait")
	ErrInvalidOrExpired      = errors.New("invalid or expired OTP")
	ErrAccountNotFound       = errors.New("account not found")
	ErrNotProfessional       = errors.New("only professionals have a profile to complete")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrProfileIncomplete     = errors.New("please complete your profile before logging in")
	ErrNotifyFailed          = errors.New("failed to send OTP")
	ErrServiceCreationFailed = errors.New("failed to create services; profile left unchanged")
)

// CodeDependency is the oops code carried by failures of a collaborator (repository, store,
// notifier, token signer). Such failures are worth retrying.
const CodeDependency = "DEPENDENCY"

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Kind classifies service errors for transports.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindNotFound
	KindUnauthorized
	KindValidation
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// KindOf classifies err. Sentinels take precedence over the dependency code so that a
// wrapped ErrNotifyFailed still reads as its own kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrRegistrationPending),
		errors.Is(err, ErrAlreadyPending):
		return KindConflict
	case errors.Is(err, ErrNoEmailStep),
		errors.Is(err, ErrInvalidOrExpired),
		errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrProfileIncomplete),
		errors.Is(err, ErrNotProfessional):
		return KindUnauthorized
	case errors.Is(err, ErrNotifyFailed),
		errors.Is(err, ErrServiceCreationFailed):
		return KindDependency
	}
	if oe, ok := oops.AsOops(err); ok && oe.Code() == CodeDependency {
		return KindDependency
	}
	return KindInternal
}

// dependency wraps a collaborator failure with the dependency code and context attributes.
func dependency(in string, err error, kv ...any) error {
	return oops.Code(CodeDependency).In(in).With(kv...).Wrap(err)
}
