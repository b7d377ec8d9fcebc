// Package jwtmw issues and verifies the HS256 bearer tokens used by the API.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim keys embedded in every issued token.
const (
	ClaimID       = "id"
	ClaimRole     = "role"
	ClaimFullName = "full_name"
	ClaimEmail    = "email"
)

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given user.
	GenerateToken(userID, role, fullName, email string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret.
// An expiration of 0 issues tokens without an exp claim.
func NewGenerator(secret string, expiration time.Duration) (*generator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}, nil
}

// GenerateToken creates a signed JWT token carrying the user's id, role, name and email.
func (g *generator) GenerateToken(userID, role, fullName, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimID:       userID,
		ClaimRole:     role,
		ClaimFullName: fullName,
		ClaimEmail:    email,
		"iat":         now.Unix(),
	}
	if g.expiration > 0 {
		claims["exp"] = now.Add(g.expiration).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
