package notify

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOTPMessage(t *testing.T) {
	if got := OTPMessage("123456"); got != "Your OTP for CraftConnect is: 123456" {
		t.Errorf("OTPMessage = %q", got)
	}
}

func TestMaskPhone(t *testing.T) {
	testCases := map[string]string{
		"+15551234567": "********4567",
		"1234":         "****",
		"":             "",
	}
	for in, want := range testCases {
		if got := MaskPhone(in); got != want {
			t.Errorf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogNotifier_DoesNotLogMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	if err := n.Send(context.Background(), "+15551234567", OTPMessage("987654")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	for k, v := range entries[0].ContextMap() {
		if s, ok := v.(string); ok && (s == "987654" || s == OTPMessage("987654")) {
			t.Errorf("field %q leaks the code", k)
		}
	}
	if entries[0].ContextMap()["phone"] != "********4567" {
		t.Errorf("phone = %v, want masked", entries[0].ContextMap()["phone"])
	}
}
