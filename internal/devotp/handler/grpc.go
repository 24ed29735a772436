// Package handler implements the dev-only gRPC DevService.
package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	onboardingv1 "craftconnect/backend/api/onboarding/v1"
	"craftconnect/backend/internal/devotp"
)

const devOTPNote = "DEV MODE ONLY"

// Server implements DevService. Only registered when dev OTP mode is enabled outside production.
type Server struct {
	onboardingv1.UnimplementedDevServiceServer
	store devotp.Store
}

// NewServer returns a DevService server that reads codes from the given store.
func NewServer(store devotp.Store) *Server {
	return &Server{store: store}
}

// GetOTP returns the last code sent to phone. Returns NotFound if missing or expired.
func (s *Server) GetOTP(ctx context.Context, req *onboardingv1.GetOTPRequest) (*onboardingv1.GetOTPResponse, error) {
	phone := strings.TrimSpace(req.GetPhone())
	if phone == "" {
		return nil, status.Error(codes.InvalidArgument, "phone is required")
	}
	if s.store == nil {
		return nil, status.Error(codes.NotFound, "OTP not found or expired")
	}
	code, ok := s.store.Get(ctx, phone)
	if !ok {
		return nil, status.Error(codes.NotFound, "OTP not found or expired")
	}
	return &onboardingv1.GetOTPResponse{
		Otp:  code,
		Note: devOTPNote,
	}, nil
}
