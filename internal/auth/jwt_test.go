package auth

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken("user-123", "brand_manager")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("ValidateToken() UserID = %v, want %v", claims.UserID, "user-123")
	}

	if claims.Role != "brand_manager" {
		t.Errorf("ValidateToken() Role = %v, want %v", claims.Role, "brand_manager")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a")
	other := NewJWTService("secret-b")

	token, err := svc.GenerateToken("user-123", "")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() with wrong secret expected error, got nil")
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	svc := NewJWTService("test-secret")

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("ValidateToken() with malformed token expected error, got nil")
	}
}

func TestGenerateUserID(t *testing.T) {
	svc := NewJWTService("test-secret")

	id, err := svc.GenerateUserID()
	if err != nil {
		t.Fatalf("GenerateUserID() error = %v", err)
	}

	if len(id) != 16 {
		t.Errorf("GenerateUserID() length = %d, want 16", len(id))
	}
}
