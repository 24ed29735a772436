package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", ready, nil)
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := startServer(t, nil)
	s.Metrics().AccountCreated("professional")
	s.Metrics().Login(OutcomeSuccess)

	code, body := get(t, "http://"+s.Addr()+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	for _, want := range []string{
		`craftconnect_registrations_total{role="professional"} 1`,
		`craftconnect_logins_total{outcome="success"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_HealthProbes(t *testing.T) {
	var ready atomic.Bool
	s := startServer(t, ready.Load)

	if code, _ := get(t, "http://"+s.Addr()+"/healthz/liveness"); code != http.StatusOK {
		t.Errorf("liveness = %d, want 200", code)
	}
	if code, body := get(t, "http://"+s.Addr()+"/healthz/readiness"); code != http.StatusServiceUnavailable || body != "not ready\n" {
		t.Errorf("readiness before ready = %d %q", code, body)
	}
	ready.Store(true)
	if code, _ := get(t, "http://"+s.Addr()+"/healthz/readiness"); code != http.StatusOK {
		t.Errorf("readiness after ready = %d, want 200", code)
	}
}

func TestServer_StartTwice(t *testing.T) {
	s := startServer(t, nil)
	if _, err := s.Start(); err == nil {
		t.Error("second Start should fail")
	}
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil, nil)
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop on idle server: %v", err)
	}
	if s.Addr() != "" {
		t.Errorf("Addr = %q, want empty", s.Addr())
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.AccountCreated("customer")
	m.OTPIssued(OutcomeSuccess)
	m.OTPVerified(OutcomeInvalid)
	m.Login(OutcomeFailure)
	m.ProfileCompleted(OutcomeSuccess)
	m.RPC("/x", "OK")
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.OTPIssued(OutcomeRejected)
	m.OTPIssued(OutcomeRejected)
	m.OTPVerified(OutcomeSuccess)
	if got := testutil.ToFloat64(m.OTPIssuedTotal.WithLabelValues(OutcomeRejected)); got != 2 {
		t.Errorf("otp rejected = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.OTPVerificationsTotal.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("otp verified = %v, want 1", got)
	}
}
