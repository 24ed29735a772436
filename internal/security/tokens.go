package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired or signed by someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSigningKey is returned when the provider has neither a key pair nor a secret.
	ErrNoSigningKey = errors.New("no signing key configured")
)

// DefaultSessionTTL is the validity window of a session token.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionClaims is the bearer session claim set: subject is the account id.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenProvider issues and validates session JWTs. It signs with RS256/ES256
// when built from a key pair, or HS256 when built from a shared secret.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	secret     []byte
	issuer     string
	audience   string
	ttl        time.Duration
	nowF       func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RSA or ECDSA).
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		ttl:        normalizeTTL(ttl),
		nowF:       time.Now,
	}
}

// NewHMACTokenProvider returns a TokenProvider that signs with HS256 using secret.
func NewHMACTokenProvider(secret []byte, issuer, audience string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      normalizeTTL(ttl),
		nowF:     time.Now,
	}
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}

// TTL returns the session validity window.
func (p *TokenProvider) TTL() time.Duration { return p.ttl }

// Issue signs a session token for subjectID with the given role.
// Returns the token and its expiration time.
func (p *TokenProvider) Issue(subjectID, role string) (string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.nowF().UTC()
	expiresAt := now.Add(p.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subjectID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}
	token, err := p.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	if p.privateKey == nil {
		if len(p.secret) == 0 {
			return "", ErrNoSigningKey
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	return jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
}

func (p *TokenProvider) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		if p.publicKey == nil {
			return nil, ErrInvalidToken
		}
		return p.publicKey, nil
	case *jwt.SigningMethodHMAC:
		if len(p.secret) == 0 {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}
	return nil, ErrInvalidToken
}

// Validate parses and validates the session token (signature, exp, iss, aud)
// and returns its claims.
func (p *TokenProvider) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, p.keyFunc,
		jwt.WithTimeFunc(p.nowF),
		jwt.WithIssuer(p.issuer),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !slices.Contains(claims.Audience, p.audience) {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
