package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess           = "success"
	OutcomeFailure           = "failure"
	OutcomeRejected          = "rejected"
	OutcomeInvalid           = "invalid"
	OutcomeProfileIncomplete = "profile_incomplete"
)

// Metrics holds the onboarding counters. All record methods are safe on a nil *Metrics.
type Metrics struct {
	RegistrationsTotal      *prometheus.CounterVec
	OTPIssuedTotal          *prometheus.CounterVec
	OTPVerificationsTotal   *prometheus.CounterVec
	LoginsTotal             *prometheus.CounterVec
	ProfileCompletionsTotal *prometheus.CounterVec
	RPCTotal                *prometheus.CounterVec
}

// NewMetrics creates and registers the onboarding metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_registrations_total",
				Help: "Accounts created, by role",
			},
			[]string{"role"},
		),
		OTPIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_otp_issued_total",
				Help: "OTP send attempts by outcome",
			},
			[]string{"outcome"},
		),
		OTPVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_otp_verifications_total",
				Help: "OTP verification attempts by outcome",
			},
			[]string{"outcome"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		ProfileCompletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_profile_completions_total",
				Help: "Profile completion attempts by outcome",
			},
			[]string{"outcome"},
		),
		RPCTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "craftconnect_rpc_total",
				Help: "Handled RPCs by method and status code",
			},
			[]string{"method", "code"},
		),
	}
	reg.MustRegister(
		m.RegistrationsTotal,
		m.OTPIssuedTotal,
		m.OTPVerificationsTotal,
		m.LoginsTotal,
		m.ProfileCompletionsTotal,
		m.RPCTotal,
	)
	return m
}

// AccountCreated counts a new account of the given role.
func (m *Metrics) AccountCreated(role string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(role).Inc()
}

// OTPIssued counts an OTP send attempt.
func (m *Metrics) OTPIssued(outcome string) {
	if m == nil {
		return
	}
	m.OTPIssuedTotal.WithLabelValues(outcome).Inc()
}

// OTPVerified counts an OTP verification attempt.
func (m *Metrics) OTPVerified(outcome string) {
	if m == nil {
		return
	}
	m.OTPVerificationsTotal.WithLabelValues(outcome).Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// ProfileCompleted counts a profile completion attempt.
func (m *Metrics) ProfileCompleted(outcome string) {
	if m == nil {
		return
	}
	m.ProfileCompletionsTotal.WithLabelValues(outcome).Inc()
}

// RPC counts a handled RPC.
func (m *Metrics) RPC(method, code string) {
	if m == nil {
		return
	}
	m.RPCTotal.WithLabelValues(method, code).Inc()
}
