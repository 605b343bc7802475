package auth

import (
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	svc := NewService("secret", time.Hour)

	hash, err := svc.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in plain text")
	}
	if !svc.CheckPassword(hash, "hunter2") {
		t.Error("expected matching password to verify")
	}
	if svc.CheckPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Hour)

	token, err := svc.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}
}

func TestTokenExpiry(t *testing.T) {
	svc := NewService("secret", time.Hour)

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, err := svc.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.VerifyToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := NewService("secret-b", time.Hour).VerifyToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
