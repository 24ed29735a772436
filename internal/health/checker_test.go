package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func servingStatus(t *testing.T, hs *health.Server, svc string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: svc})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestChecker_NoDependencies(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.False(t, c.Ready(), "not ready before the first check")
	assert.Empty(t, c.Check(context.Background()))
	assert.True(t, c.Ready())
}

func TestChecker_FailureFlipsGRPCStatus(t *testing.T) {
	hs := health.NewServer()
	c := NewChecker(hs, nil, "craftconnect.onboarding.v1.OnboardingService")
	var down error
	c.Add("postgres", PingFunc(func(context.Context) error { return down }))

	require.Empty(t, c.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, hs, "craftconnect.onboarding.v1.OnboardingService"))

	down = errors.New("connection refused")
	failures := c.Check(context.Background())
	require.Contains(t, failures, "postgres")
	assert.False(t, c.Ready())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, hs, ""))
}

func TestChecker_RunStopsWithContext(t *testing.T) {
	c := NewChecker(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, c.Ready, time.Second, time.Millisecond)
	cancel()
	<-done
}
