// Package auth handles password hashing and the signed tokens that scope
// API access to a user's own diagrams.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/okrause/tikzcanvas/pkg/apperr"
)

// Tokens issues and verifies HS256 tokens for user IDs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a token issuer with the given signing secret and token
// lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user ID as its subject.
func (t *Tokens) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "signing token")
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the user ID.
func (t *Tokens) Verify(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.CodeUnauthorized, "unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.New(apperr.CodeUnauthorized, "invalid token")
	}
	claims := token.Claims.(*jwt.RegisteredClaims)
	if claims.Subject == "" {
		return "", apperr.New(apperr.CodeUnauthorized, "token has no subject")
	}
	return claims.Subject, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "hashing password")
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
