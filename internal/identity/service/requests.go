package service

import (
	"math"
	"regexp"
	"strings"

	"craftconnect/backend/internal/account/domain"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// RegisterRequest starts a professional registration or registers a customer.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// SendOTPRequest binds a phone to a pending registration and sends a code to it.
type SendOTPRequest struct {
	Email string
	Phone string
}

// VerifyOTPRequest proves possession of the phone and creates the account.
type VerifyOTPRequest struct {
	Email string
	Code  string
}

// ServiceInput is one offering submitted during profile completion.
type ServiceInput struct {
	Name        string
	Type        string
	Rate        float64
	Description string
}

// CompleteProfileRequest attaches address, coordinates and offered services to a professional.
type CompleteProfileRequest struct {
	Address  string
	Location *domain.Location
	Services []ServiceInput
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Email    string
	Password string
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email", "invalid format")
	}
	return nil
}

func (r *RegisterRequest) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	if r.Name == "" {
		return invalid("name", "is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return invalid("password", "is required")
	}
	if len(r.Password) > MaxPasswordBytes {
		return invalid("password", "must be at most 72 bytes")
	}
	return nil
}

func (r *SendOTPRequest) normalize() error {
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if !phonePattern.MatchString(r.Phone) {
		return invalid("phone", "must be in E.164 format, e.g. +15551234567")
	}
	return nil
}

func (r *VerifyOTPRequest) normalize() error {
	r.Email = NormalizeEmail(r.Email)
	r.Code = strings.TrimSpace(r.Code)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Code == "" {
		return invalid("otp", "is required")
	}
	return nil
}

func (r *CompleteProfileRequest) normalize() error {
	r.Address = strings.TrimSpace(r.Address)
	if loc := r.Location; loc != nil {
		if !finite(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
			return invalid("longitude", "must be between -180 and 180")
		}
		if !finite(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
			return invalid("latitude", "must be between -90 and 90")
		}
	}
	for i := range r.Services {
		svc := &r.Services[i]
		svc.Name = strings.TrimSpace(svc.Name)
		svc.Type = strings.TrimSpace(svc.Type)
		if svc.Name == "" {
			return invalid("services.name", "is required")
		}
		if !finite(svc.Rate) || svc.Rate < 0 {
			return invalid("services.rate", "must be a non-negative number")
		}
	}
	return nil
}

func (r *LoginRequest) normalize() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return invalid("email", "is required")
	}
	if r.Password == "" {
		return invalid("password", "is required")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
