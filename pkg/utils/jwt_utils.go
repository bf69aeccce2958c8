package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies JWT tokens. It has no built-in default:
// InitJWT must be called at startup with the secret loaded from configuration.
var jwtSecretKey []byte

// TokenTTL is the validity window for issued tokens.
const TokenTTL = 7 * 24 * time.Hour

// ErrJWTNotConfigured is returned when tokens are issued or validated before
// InitJWT has been called.
var ErrJWTNotConfigured = errors.New("jwt signing secret is not configured")

// InitJWT installs the signing secret used for all token operations.
func InitJWT(secret string) {
	jwtSecretKey = []byte(secret)
}

// Claims defines the JWT claims structure carried by every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the given user identity and role.
func GenerateToken(userID, email, role, name string) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", ErrJWTNotConfigured
	}

	expirationTime := time.Now().Add(TokenTTL)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "inventrax-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error. Signature
// mismatch and expiry both surface as errors, never as panics.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecretKey) == 0 {
		return nil, ErrJWTNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
