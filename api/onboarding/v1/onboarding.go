// Package onboardingv1 defines the wire messages, service descriptors and clients of the
// craftconnect.onboarding.v1 gRPC API. Messages are JSON encoded (see Codec).
package onboardingv1

import "time"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (x *RegisterRequest) GetName() string {
	if x == nil {
		return ""
	}
	return x.Name
}

func (x *RegisterRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *RegisterRequest) GetPassword() string {
	if x == nil {
		return ""
	}
	return x.Password
}

type RegisterProfessionalResponse struct {
	Message string `json:"message"`
}

type SendOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (x *SendOTPRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *SendOTPRequest) GetPhone() string {
	if x == nil {
		return ""
	}
	return x.Phone
}

type SendOTPResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (x *VerifyOTPRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *VerifyOTPRequest) GetOtp() string {
	if x == nil {
		return ""
	}
	return x.Otp
}

type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type ServiceInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description"`
}

type CompleteProfileRequest struct {
	Address         string          `json:"address"`
	Location        *Location       `json:"location,omitempty"`
	ServicesOffered []*ServiceInput `json:"services_offered"`
}

func (x *CompleteProfileRequest) GetAddress() string {
	if x == nil {
		return ""
	}
	return x.Address
}

func (x *CompleteProfileRequest) GetLocation() *Location {
	if x == nil {
		return nil
	}
	return x.Location
}

func (x *CompleteProfileRequest) GetServicesOffered() []*ServiceInput {
	if x == nil {
		return nil
	}
	return x.ServicesOffered
}

type CompleteProfileResponse struct {
	Message string   `json:"message"`
	Account *Account `json:"account"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (x *LoginRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *LoginRequest) GetPassword() string {
	if x == nil {
		return ""
	}
	return x.Password
}

// Account is the public view of an account. The password hash is never sent.
type Account struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Role             string    `json:"role"`
	ProfileCompleted bool      `json:"profile_completed"`
	Address          string    `json:"address,omitempty"`
	Location         *Location `json:"location,omitempty"`
	ServicesOffered  []string  `json:"services_offered"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AuthResponse carries a session for the account.
type AuthResponse struct {
	Account   *Account  `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (x *AuthResponse) GetAccount() *Account {
	if x == nil {
		return nil
	}
	return x.Account
}

func (x *AuthResponse) GetToken() string {
	if x == nil {
		return ""
	}
	return x.Token
}

type GetOTPRequest struct {
	Phone string `json:"phone"`
}

func (x *GetOTPRequest) GetPhone() string {
	if x == nil {
		return ""
	}
	return x.Phone
}

type GetOTPResponse struct {
	Otp  string `json:"otp"`
	Note string `json:"note"`
}
