// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SMS providers selectable with SMS_PROVIDER.
const (
	SMSProviderLog      = "log"
	SMSProviderSMSLocal = "smslocal"
	SMSProviderTwilio   = "twilio"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// MetricsAddr serves /metrics and the liveness/readiness probes. Empty disables it.
	MetricsAddr string `mapstructure:"METRICS_ADDR"`
	// DatabaseURL selects the account repository: postgres://, sqlite:// or empty for in-memory.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// RedisAddr, when set, backs the OTP and pending-registration stores with Redis.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTSecret signs session tokens with HS256 when no key pair is configured.
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER"`
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// SessionTTLRaw is the session token lifetime (e.g. "168h").
	SessionTTLRaw string `mapstructure:"SESSION_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// OTPTTLRaw is how long a verification code stays valid (e.g. "5m").
	OTPTTLRaw string `mapstructure:"OTP_TTL"`
	// PendingTTLRaw bounds how long an abandoned registration is kept (e.g. "24h").
	PendingTTLRaw string `mapstructure:"PENDING_TTL"`
	// PendingDuplicatePolicy is replace or reject.
	PendingDuplicatePolicy string `mapstructure:"PENDING_DUPLICATE_POLICY"`

	// SMSProvider is log, smslocal or twilio.
	SMSProvider       string `mapstructure:"SMS_PROVIDER"`
	SMSLocalAPIKey    string `mapstructure:"SMS_LOCAL_API_KEY"`
	SMSLocalSender    string `mapstructure:"SMS_LOCAL_SENDER"`
	SMSLocalBaseURL   string `mapstructure:"SMS_LOCAL_BASE_URL"`
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`

	// OTPReturnToClient enables dev OTP mode: codes are kept for DevService/GetOTP. Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTelEndpoint is the OTLP gRPC endpoint for traces, metrics and lifecycle event logs. Empty disables export.
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// KafkaBrokers is a comma-separated list of brokers; when set, lifecycle events are also published to Kafka.
	KafkaBrokers     string `mapstructure:"KAFKA_BROKERS"`
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
}

var defaults = map[string]any{
	"GRPC_ADDR":                   ":8080",
	"METRICS_ADDR":                ":9090",
	"DATABASE_URL":                "",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"JWT_PRIVATE_KEY":             "",
	"JWT_PUBLIC_KEY":              "",
	"JWT_SECRET":                  "",
	"JWT_ISSUER":                  "craftconnect-auth",
	"JWT_AUDIENCE":                "craftconnect-api",
	"SESSION_TTL":                 "168h",
	"BCRYPT_COST":                 12,
	"OTP_TTL":                     "5m",
	"PENDING_TTL":                 "24h",
	"PENDING_DUPLICATE_POLICY":    "replace",
	"SMS_PROVIDER":                SMSProviderLog,
	"SMS_LOCAL_API_KEY":           "",
	"SMS_LOCAL_SENDER":            "",
	"SMS_LOCAL_BASE_URL":          "https://www.smslocal.com/dev/bulkV2",
	"TWILIO_ACCOUNT_SID":          "",
	"TWILIO_AUTH_TOKEN":           "",
	"TWILIO_PHONE_NUMBER":         "",
	"OTP_RETURN_TO_CLIENT":        false,
	"APP_ENV":                     "",
	"LOG_LEVEL":                   "info",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_INSECURE": false,
	"KAFKA_BROKERS":               "",
	"EVENTS_KAFKA_TOPIC":          "craftconnect-onboarding-events",
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	_ = godotenv.Load() // never overrides variables already set

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.SMSProvider = strings.ToLower(strings.TrimSpace(cfg.SMSProvider))
	cfg.PendingDuplicatePolicy = strings.ToLower(strings.TrimSpace(cfg.PendingDuplicatePolicy))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}
	if c.OTPReturnToClient && c.Env == "production" {
		return errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	switch c.PendingDuplicatePolicy {
	case "", "replace", "reject":
	default:
		return fmt.Errorf("config: PENDING_DUPLICATE_POLICY must be replace or reject, got %q", c.PendingDuplicatePolicy)
	}
	switch c.SMSProvider {
	case SMSProviderLog:
	case SMSProviderSMSLocal:
		if c.SMSLocalAPIKey == "" {
			return errors.New("config: SMS_LOCAL_API_KEY is required when SMS_PROVIDER=smslocal")
		}
	case SMSProviderTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioPhoneNumber == "" {
			return errors.New("config: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required when SMS_PROVIDER=twilio")
		}
	default:
		return fmt.Errorf("config: SMS_PROVIDER must be log, smslocal or twilio, got %q", c.SMSProvider)
	}
	if c.SMSProvider == SMSProviderLog && c.Env == "production" && !c.OTPReturnToClient {
		return errors.New("config: SMS_PROVIDER=log cannot deliver codes in production")
	}
	if c.JWTSecret == "" && (c.JWTPrivateKey == "" || c.JWTPublicKey == "") {
		return errors.New("config: set JWT_SECRET or both JWT_PRIVATE_KEY and JWT_PUBLIC_KEY")
	}
	for key, raw := range map[string]string{"SESSION_TTL": c.SessionTTLRaw, "OTP_TTL": c.OTPTTLRaw, "PENDING_TTL": c.PendingTTLRaw} {
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return fmt.Errorf("config: %s must be a positive duration, got %q", key, raw)
		}
	}
	return nil
}

func parseTTL(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// SessionTTL parses SessionTTLRaw. Returns 168h if unset or invalid.
func (c *Config) SessionTTL() time.Duration { return parseTTL(c.SessionTTLRaw, 168*time.Hour) }

// OTPTTL parses OTPTTLRaw. Returns 5m if unset or invalid.
func (c *Config) OTPTTL() time.Duration { return parseTTL(c.OTPTTLRaw, 5*time.Minute) }

// PendingTTL parses PendingTTLRaw. Returns 24h if unset or invalid.
func (c *Config) PendingTTL() time.Duration { return parseTTL(c.PendingTTLRaw, 24*time.Hour) }

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DevOTP reports whether dev OTP mode is on. Load refuses it in production.
func (c *Config) DevOTP() bool {
	return c.OTPReturnToClient && c.Env != "production"
}
