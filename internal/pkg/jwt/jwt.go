package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "easy-read-secret-change-me"

var secret = []byte(defaultSecret)

// SetSecret configures the JWT signing secret (call on startup).
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Purpose scopes a token to a single use. A session token is never accepted
// where a confirmation or reset token is expected, and vice versa.
type Purpose string

const (
	PurposeSession       Purpose = "session"
	PurposeConfirmEmail  Purpose = "confirm_email"
	PurposePasswordReset Purpose = "password_reset"
)

// Claims is the JWT payload.
type Claims struct {
	UserID  string  `json:"uid"`
	Purpose Purpose `json:"purpose,omitempty"`
	jwtlib.RegisteredClaims
}

// Sign creates a signed session token for the given user ID.
func Sign(userID string, ttl time.Duration) (string, error) {
	return SignFor(userID, PurposeSession, ttl)
}

// SignFor creates a signed token bound to a purpose.
func SignFor(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates a token string and returns the claims. Verification fails
// closed: any parse or signature problem yields an error, never a panic.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ParseFor validates a token and checks it carries the expected purpose.
// Tokens signed before purposes existed default to session scope.
func ParseFor(tokenStr string, purpose Purpose) (*Claims, error) {
	claims, err := Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	got := claims.Purpose
	if got == "" {
		got = PurposeSession
	}
	if got != purpose {
		return nil, fmt.Errorf("token purpose mismatch")
	}
	return claims, nil
}
