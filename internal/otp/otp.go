// Package otp generates phone verification codes and tracks the single live challenge per phone.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	codeDigits = 6
	minCode    = 100000
	maxCode    = 999999
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

var (
	// ErrAlreadyPending is returned by Issue while an unexpired challenge exists for the phone.
	ErrAlreadyPending = errors.New("otp: challenge already pending")
	// ErrInvalidOrExpired is returned by Verify when there is no challenge, it expired, or the code is wrong.
	ErrInvalidOrExpired = errors.New("otp: invalid or expired")
)

// Challenge is an issued code. Code is the plaintext, returned only so it can be delivered;
// stores keep its hash.
type Challenge struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
}

// Store issues and verifies challenges keyed by phone number.
type Store interface {
	// Issue creates a challenge for phone. Returns ErrAlreadyPending if one is live.
	Issue(ctx context.Context, phone string) (*Challenge, error)
	// Verify consumes the challenge for phone when code matches. A wrong code leaves the challenge in place.
	Verify(ctx context.Context, phone, code string) error
}

// Generate returns a uniformly random code in [100000, 999999] as a 6-digit string.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()+minCode), nil
}

// Canonicalize trims code and reports whether it is exactly six ASCII digits.
// Codes are compared as strings so "012345" never equals "12345".
func Canonicalize(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if len(code) != codeDigits {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", false
		}
	}
	return code, true
}

// HashOTP returns a SHA-256 hash of the code, hex-encoded.
func HashOTP(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// OTPEqual performs constant-time comparison of the provided code's hash with the stored hash.
func OTPEqual(providedCode, storedHash string) bool {
	providedHash := HashOTP(providedCode)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
