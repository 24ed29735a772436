package server

import (
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	onboardingv1 "craftconnect/backend/api/onboarding/v1"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	services []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.services = append(m.services, desc.ServiceName)
}

// mockDevService implements onboardingv1.DevServiceServer for testing.
type mockDevService struct {
	onboardingv1.UnimplementedDevServiceServer
}

func TestRegisterServices(t *testing.T) {
	testCases := []struct {
		name string
		deps Deps
		want []string
	}{
		{
			name: "nil dependencies",
			deps: Deps{},
			want: []string{"craftconnect.onboarding.v1.OnboardingService"},
		},
		{
			name: "health",
			deps: Deps{Health: health.NewServer()},
			want: []string{"craftconnect.onboarding.v1.OnboardingService", "grpc.health.v1.Health"},
		},
		{
			name: "dev service",
			deps: Deps{Health: health.NewServer(), DevOTPHandler: &mockDevService{}},
			want: []string{"craftconnect.onboarding.v1.OnboardingService", "grpc.health.v1.Health", "craftconnect.onboarding.v1.DevService"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := &mockServiceRegistrar{}
			RegisterServices(reg, tc.deps)
			if len(reg.services) != len(tc.want) {
				t.Fatalf("registered %v, want %v", reg.services, tc.want)
			}
			for i := range tc.want {
				if reg.services[i] != tc.want[i] {
					t.Errorf("service[%d] = %q, want %q", i, reg.services[i], tc.want[i])
				}
			}
		})
	}
}

func TestPublicMethods_CompleteProfileProtected(t *testing.T) {
	public := PublicMethods()
	if public[onboardingv1.OnboardingService_CompleteProfile_FullMethodName] {
		t.Error("CompleteProfile must require a session token")
	}
	for _, m := range []string{
		onboardingv1.OnboardingService_RegisterProfessional_FullMethodName,
		onboardingv1.OnboardingService_Login_FullMethodName,
		onboardingv1.DevService_GetOTP_FullMethodName,
	} {
		if !public[m] {
			t.Errorf("%s should be public", m)
		}
	}
}
