// Package server assembles the gRPC server: interceptors, stats handler and service registration.
package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	onboardingv1 "craftconnect/backend/api/onboarding/v1"
	identityhandler "craftconnect/backend/internal/identity/handler"
	"craftconnect/backend/internal/observability"
	"craftconnect/backend/internal/security"
	"craftconnect/backend/internal/server/interceptors"
)

// Deps holds the service dependencies for gRPC handlers.
type Deps struct {
	// Onboarding is the registration service. If nil, onboarding RPCs return Unimplemented.
	Onboarding identityhandler.Onboarding
	// Logger is passed to handlers; nil means no logging.
	Logger *zap.Logger
	// Health is the grpc.health.v1 server kept up to date by health.Checker. If nil, Health is not registered.
	Health *health.Server
	// DevOTPHandler is the dev-only DevService (GetOTP). If nil, DevService is not registered. Set only when dev OTP is enabled and not production.
	DevOTPHandler onboardingv1.DevServiceServer
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - OnboardingService → internal/identity/handler
//   - DevService        → internal/devotp/handler (dev OTP mode only)
//   - grpc.health.v1    → google.golang.org/grpc/health, driven by internal/health
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	onboardingv1.RegisterOnboardingServiceServer(s, identityhandler.NewServer(deps.Onboarding, deps.Logger))
	if deps.Health != nil {
		healthpb.RegisterHealthServer(s, deps.Health)
	}
	if deps.DevOTPHandler != nil {
		onboardingv1.RegisterDevServiceServer(s, deps.DevOTPHandler)
	}
}

// PublicMethods returns the full method names callable without a session token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		onboardingv1.OnboardingService_RegisterProfessional_FullMethodName: true,
		onboardingv1.OnboardingService_SendOTP_FullMethodName:              true,
		onboardingv1.OnboardingService_VerifyOTP_FullMethodName:            true,
		onboardingv1.OnboardingService_RegisterCustomer_FullMethodName:     true,
		onboardingv1.OnboardingService_Login_FullMethodName:                true,
		onboardingv1.DevService_GetOTP_FullMethodName:                      true,
		healthpb.Health_Check_FullMethodName:                               true,
		healthpb.Health_List_FullMethodName:                                true,
	}
}

// quietMethods are counted but not logged per call.
var quietMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
}

// NewGRPCServer returns a grpc.Server with the logging and auth interceptors chained (in that
// order) and OpenTelemetry stats instrumentation. metrics may be nil.
func NewGRPCServer(tokens *security.TokenProvider, logger *zap.Logger, metrics *observability.Metrics, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingUnary(logger, metrics, quietMethods),
			interceptors.AuthUnary(tokens, PublicMethods()),
		),
	}
	return grpc.NewServer(append(base, opts...)...)
}
