// Package handler implements OnboardingService: professional registration, customer
// registration, profile completion and login.
package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	onboardingv1 "craftconnect/backend/api/onboarding/v1"
	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/identity/service"
	"craftconnect/backend/internal/platform/rbac"
)

const (
	msgEmailRegistered  = "Email registered. Please verify your phone number."
	msgOTPSent          = "OTP sent to phone"
	msgProfileCompleted = "Profile completed"
)

// Onboarding is the registration service behind the handler.
type Onboarding interface {
	RegisterProfessional(ctx context.Context, req service.RegisterRequest) error
	SendOTP(ctx context.Context, req service.SendOTPRequest) error
	VerifyOTP(ctx context.Context, req service.VerifyOTPRequest) (*service.AuthResult, error)
	CompleteProfile(ctx context.Context, accountID string, req service.CompleteProfileRequest) (*domain.Account, error)
	RegisterCustomer(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
}

// Server implements OnboardingService. If the service is nil every RPC returns Unimplemented.
type Server struct {
	onboardingv1.UnimplementedOnboardingServiceServer
	svc    Onboarding
	logger *zap.Logger
}

// NewServer returns a new Onboarding gRPC server.
func NewServer(svc Onboarding, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger}
}

func (s *Server) RegisterProfessional(ctx context.Context, req *onboardingv1.RegisterRequest) (*onboardingv1.RegisterProfessionalResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.RegisterProfessional(ctx, req)
	}
	err := s.svc.RegisterProfessional(ctx, service.RegisterRequest{
		Name:     req.GetName(),
		Email:    req.GetEmail(),
		Password: req.GetPassword(),
	})
	if err != nil {
		return nil, s.toStatus("RegisterProfessional", err)
	}
	return &onboardingv1.RegisterProfessionalResponse{Message: msgEmailRegistered}, nil
}

func (s *Server) SendOTP(ctx context.Context, req *onboardingv1.SendOTPRequest) (*onboardingv1.SendOTPResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.SendOTP(ctx, req)
	}
	err := s.svc.SendOTP(ctx, service.SendOTPRequest{Email: req.GetEmail(), Phone: req.GetPhone()})
	if err != nil {
		return nil, s.toStatus("SendOTP", err)
	}
	return &onboardingv1.SendOTPResponse{Message: msgOTPSent}, nil
}

func (s *Server) VerifyOTP(ctx context.Context, req *onboardingv1.VerifyOTPRequest) (*onboardingv1.AuthResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.VerifyOTP(ctx, req)
	}
	res, err := s.svc.VerifyOTP(ctx, service.VerifyOTPRequest{Email: req.GetEmail(), Code: req.GetOtp()})
	if err != nil {
		return nil, s.toStatus("VerifyOTP", err)
	}
	return authResponse(res), nil
}

// CompleteProfile requires a professional session; the account is taken from the token.
func (s *Server) CompleteProfile(ctx context.Context, req *onboardingv1.CompleteProfileRequest) (*onboardingv1.CompleteProfileResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.CompleteProfile(ctx, req)
	}
	accountID, err := rbac.RequireRole(ctx, domain.RoleProfessional)
	if err != nil {
		return nil, err
	}
	in := service.CompleteProfileRequest{Address: req.GetAddress()}
	if loc := req.GetLocation(); loc != nil {
		in.Location = &domain.Location{Longitude: loc.Longitude, Latitude: loc.Latitude}
	}
	for _, svc := range req.GetServicesOffered() {
		if svc == nil {
			continue
		}
		in.Services = append(in.Services, service.ServiceInput{
			Name:        svc.Name,
			Type:        svc.Type,
			Rate:        svc.Rate,
			Description: svc.Description,
		})
	}
	acct, err := s.svc.CompleteProfile(ctx, accountID, in)
	if err != nil {
		return nil, s.toStatus("CompleteProfile", err)
	}
	return &onboardingv1.CompleteProfileResponse{Message: msgProfileCompleted, Account: accountToProto(acct)}, nil
}

func (s *Server) RegisterCustomer(ctx context.Context, req *onboardingv1.RegisterRequest) (*onboardingv1.AuthResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.RegisterCustomer(ctx, req)
	}
	res, err := s.svc.RegisterCustomer(ctx, service.RegisterRequest{
		Name:     req.GetName(),
		Email:    req.GetEmail(),
		Password: req.GetPassword(),
	})
	if err != nil {
		return nil, s.toStatus("RegisterCustomer", err)
	}
	return authResponse(res), nil
}

func (s *Server) Login(ctx context.Context, req *onboardingv1.LoginRequest) (*onboardingv1.AuthResponse, error) {
	if s.svc == nil {
		return s.UnimplementedOnboardingServiceServer.Login(ctx, req)
	}
	res, err := s.svc.Login(ctx, service.LoginRequest{Email: req.GetEmail(), Password: req.GetPassword()})
	if err != nil {
		return nil, s.toStatus("Login", err)
	}
	return authResponse(res), nil
}

// publicErrors are the service errors whose message is safe to return to callers.
var publicErrors = []error{
	service.ErrEmailTaken,
	service.ErrRegistrationPending,
	service.ErrNoEmailStep,
	service.ErrAlreadyPending,
	service.ErrInvalidOrExpired,
	service.ErrAccountNotFound,
	service.ErrNotProfessional,
	service.ErrInvalidCredentials,
	service.ErrProfileIncomplete,
	service.ErrNotifyFailed,
	service.ErrServiceCreationFailed,
}

func publicMessage(err error, fallback string) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return fallback
}

// toStatus maps a service error to a gRPC status. Dependency and internal failures are logged
// with their full chain; callers only see the public message.
func (s *Server) toStatus(method string, err error) error {
	switch service.KindOf(err) {
	case service.KindValidation:
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return status.Error(codes.InvalidArgument, ve.Error())
		}
		return status.Error(codes.InvalidArgument, "invalid request")
	case service.KindConflict:
		return status.Error(codes.AlreadyExists, publicMessage(err, "conflict"))
	case service.KindNotFound:
		return status.Error(codes.FailedPrecondition, publicMessage(err, "precondition failed"))
	case service.KindUnauthorized:
		if errors.Is(err, service.ErrProfileIncomplete) || errors.Is(err, service.ErrNotProfessional) {
			return status.Error(codes.PermissionDenied, publicMessage(err, "permission denied"))
		}
		return status.Error(codes.Unauthenticated, publicMessage(err, "unauthenticated"))
	case service.KindDependency:
		s.logger.Warn("dependency failure", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Unavailable, publicMessage(err, "service temporarily unavailable"))
	default:
		s.logger.Error("internal error", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

func authResponse(res *service.AuthResult) *onboardingv1.AuthResponse {
	return &onboardingv1.AuthResponse{
		Account:   accountToProto(res.Account),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
}

func accountToProto(a *domain.Account) *onboardingv1.Account {
	if a == nil {
		return nil
	}
	out := &onboardingv1.Account{
		Id:               a.ID,
		Name:             a.Name,
		Email:            a.Email,
		Phone:            a.Phone,
		Role:             string(a.Role),
		ProfileCompleted: a.ProfileCompleted,
		Address:          a.Address,
		ServicesOffered:  append([]string{}, a.ServicesOffered...),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Location != nil {
		out.Location = &onboardingv1.Location{Longitude: a.Location.Longitude, Latitude: a.Location.Latitude}
	}
	return out
}
