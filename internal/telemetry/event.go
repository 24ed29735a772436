// Package telemetry carries onboarding lifecycle events (registration started,
// OTP issued, account created, login outcome) to best-effort sinks such as
// OTel logs and Kafka.
package telemetry

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types emitted by the registration service.
const (
	EventRegistrationStarted = "registration.started"
	EventOTPIssued           = "otp.issued"
	EventOTPVerified         = "otp.verified"
	EventAccountCreated      = "account.created"
	EventProfileCompleted    = "profile.completed"
	EventLoginSucceeded      = "login.succeeded"
	EventLoginFailed         = "login.failed"
)

// DefaultSource tags events produced by the onboarding service.
const DefaultSource = "onboarding"

// Event is a single lifecycle event. AccountID is empty before an account exists.
// Attributes never carry secrets (passwords, OTP codes, tokens).
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	AccountID  string            `json:"account_id,omitempty"`
	Role       string            `json:"role,omitempty"`
	Source     string            `json:"source"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewEvent returns an Event with a fresh ULID and the current UTC time.
func NewEvent(eventType string) *Event {
	return &Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		Source:     DefaultSource,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAccount sets the account id and role.
func (e *Event) WithAccount(accountID, role string) *Event {
	e.AccountID = accountID
	e.Role = role
	return e
}

// With adds an attribute.
func (e *Event) With(key, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}
