package auth

import "testing"

// TestSignAndParseAccessToken verifies sign and parse access token behavior.
func TestSignAndParseAccessToken(t *testing.T) {
	const secret = "test-secret"

	token, err := SignAccessToken(secret, 42, "owner@example.com", true)
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}

	claims, err := ParseAccessToken(secret, token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "owner@example.com" {
		t.Fatalf("Email = %q", claims.Email)
	}
	if !claims.IsAdmin {
		t.Fatal("IsAdmin = false, want true")
	}
}

// TestParseAccessTokenWrongSecret verifies parse access token wrong secret behavior.
func TestParseAccessTokenWrongSecret(t *testing.T) {
	token, err := SignAccessToken("secret-a", 1, "user@example.com", false)
	if err != nil {
		t.Fatalf("SignAccessToken() error = %v", err)
	}
	if _, err := ParseAccessToken("secret-b", token); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken("secret", "not-a-token"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
