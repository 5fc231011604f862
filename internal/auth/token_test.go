package auth

import (
	"testing"
)

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken("test-secret", "user-1", "admin", 60)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("test-secret", "user-1", "customer", 60)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("test-secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken("test-secret", "user-1", "customer", -5)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	if _, err := ParseToken("test-secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}
