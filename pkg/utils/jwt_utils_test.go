package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("user-1", "alice@example.com", "ADMIN", "Alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a non-empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("Expected UserID user-1, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %s", claims.Email)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Expected role ADMIN, got %s", claims.Role)
	}
	if claims.Name != "Alice" {
		t.Errorf("Expected name Alice, got %s", claims.Name)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	InitJWT("first-secret")
	token, err := GenerateToken("user-1", "alice@example.com", "STAFF", "Alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitJWT("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("Expected validation to fail for a token signed with a different secret")
	}
}

func TestValidateTokenTampered(t *testing.T) {
	InitJWT("test-secret")
	token, err := GenerateToken("user-1", "alice@example.com", "STAFF", "Alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("Expected a three-part JWT, got %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := ValidateToken(tampered); err == nil {
		t.Fatal("Expected validation to fail for a tampered token")
	}
}

func TestTokenOperationsRequireInit(t *testing.T) {
	InitJWT("test-secret")
	token, err := GenerateToken("user-1", "alice@example.com", "STAFF", "Alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitJWT("")
	defer InitJWT("test-secret")

	if _, err := GenerateToken("user-1", "alice@example.com", "STAFF", "Alice"); !errors.Is(err, ErrJWTNotConfigured) {
		t.Errorf("Expected ErrJWTNotConfigured from GenerateToken, got %v", err)
	}
	if _, err := ValidateToken(token); !errors.Is(err, ErrJWTNotConfigured) {
		t.Errorf("Expected ErrJWTNotConfigured from ValidateToken, got %v", err)
	}
}
