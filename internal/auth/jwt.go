// Package auth provides service-token utilities for authenticating backend RPCs.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenExpiry is how long a minted RPC token stays valid.
// Tokens are minted per request, so the window only needs to cover clock skew
// plus transport time.
const ServiceTokenExpiry = 5 * time.Minute

// DefaultLeeway for token validation.
const DefaultLeeway = 30 * time.Second

// ErrInvalidToken is returned when token validation fails.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned when the token has expired.
var ErrExpiredToken = errors.New("token has expired")

// ErrEmptyKeyID is returned when the API key ID is empty.
var ErrEmptyKeyID = errors.New("API key ID cannot be empty")

// Claims represents the custom JWT claims attached to backend RPC requests.
type Claims struct {
	jwt.RegisteredClaims
	Mode string `json:"mode,omitempty"` // "sandbox" or "production"
}

// Signer mints and validates HS256 service tokens for the payment backend.
type Signer struct {
	keyID  string
	secret []byte
	mode   string
	leeway time.Duration
}

// NewSigner creates a new Signer for the given API key pair and environment mode.
func NewSigner(keyID, secret, mode string) *Signer {
	return &Signer{
		keyID:  keyID,
		secret: []byte(secret),
		mode:   mode,
		leeway: DefaultLeeway,
	}
}

// NewSignerWithLeeway creates a new Signer with custom validation leeway.
func NewSignerWithLeeway(keyID, secret, mode string, leeway time.Duration) *Signer {
	return &Signer{
		keyID:  keyID,
		secret: []byte(secret),
		mode:   mode,
		leeway: leeway,
	}
}

// Mint creates a short-lived service token identifying this integration.
func (s *Signer) Mint() (string, error) {
	if s.keyID == "" {
		return "", ErrEmptyKeyID
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.keyID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ServiceTokenExpiry)),
		},
		Mode: s.mode,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a service token, returning the claims if valid.
func (s *Signer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithLeeway(s.leeway))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
