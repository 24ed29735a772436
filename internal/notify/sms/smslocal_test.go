package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewSMSLocalClient_Defaults(t *testing.T) {
	client := NewSMSLocalClient("api-key", "", "")
	if client.APIKey != "api-key" {
		t.Errorf("APIKey = %q, want %q", client.APIKey, "api-key")
	}
	if client.BaseURL != DefaultSMSLocalURL {
		t.Errorf("BaseURL = %q, want default", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if client.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, defaultTimeout)
	}
}

func TestSMSLocalSend_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want %q", r.Method, http.MethodPost)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "test-api-key" {
			t.Errorf("Authorization = %q, want test-api-key", r.Header.Get("Authorization"))
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Decode body: %v", err)
		}
		if body["route"] != "q" {
			t.Errorf("route = %v, want q", body["route"])
		}
		if body["numbers"] != "15551234567" {
			t.Errorf("numbers = %v, want 15551234567", body["numbers"])
		}
		if body["message"] != "Your OTP for CraftConnect is: 123456" {
			t.Errorf("message = %v", body["message"])
		}
		if body["sender_id"] != "CRAFT" {
			t.Errorf("sender_id = %v, want CRAFT", body["sender_id"])
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewSMSLocalClient("test-api-key", server.URL, "CRAFT")
	if err := client.Send(context.Background(), "+15551234567", "Your OTP for CraftConnect is: 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestSMSLocalSend_OmitsEmptySender(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSMSLocalClient("api-key", server.URL, "")
	if err := client.Send(context.Background(), "15551234567", "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, ok := body["sender_id"]; ok {
		t.Error("sender_id should be omitted when not configured")
	}
}

func TestSMSLocalSend_MissingAPIKey(t *testing.T) {
	client := NewSMSLocalClient("", "", "")
	err := client.Send(context.Background(), "15551234567", "hi")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key not configured") {
		t.Errorf("error message = %q, want to contain 'API key not configured'", err.Error())
	}
}

func TestSMSLocalSend_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer server.Close()

	client := NewSMSLocalClient("api-key", server.URL, "")
	client.HTTPClient = &http.Client{Timeout: time.Second}
	if err := client.Send(context.Background(), "15551234567", "hi"); err == nil {
		t.Fatal("expected error for HTTP failure")
	}
}

func TestSMSLocalSend_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid request"}`))
	}))
	defer server.Close()

	client := NewSMSLocalClient("api-key", server.URL, "")
	err := client.Send(context.Background(), "15551234567", "hi")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "status=400") || !strings.Contains(err.Error(), "invalid request") {
		t.Errorf("error message = %q, want status and body", err.Error())
	}
}

func TestSMSLocalSend_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewSMSLocalClient("api-key", server.URL, "")
	if err := client.Send(ctx, "15551234567", "hi"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
