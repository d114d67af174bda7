package utils_test

import (
	"testing"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/utils"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := utils.NewSessionToken("secret", 42, model.RoleAdmin, 60)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	uid, role, err := utils.ParseSessionToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if uid != 42 || role != model.RoleAdmin {
		t.Fatalf("got uid=%d role=%s", uid, role)
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	tok, err := utils.NewSessionToken("secret", 42, model.RoleUser, 60)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, _, err := utils.ParseSessionToken("other", tok.Token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	tok, err := utils.NewSessionToken("secret", 42, model.RoleUser, -1)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, _, err := utils.ParseSessionToken("secret", tok.Token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestSessionToken_Garbage(t *testing.T) {
	if _, _, err := utils.ParseSessionToken("secret", "not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
	if _, _, err := utils.ParseSessionToken("secret", ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
