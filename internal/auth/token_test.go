package auth

import (
	"testing"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	dept := "mechanical"
	user := &domain.User{
		ID:           "user-1",
		Role:         domain.RoleTechnician,
		DepartmentID: &dept,
	}

	token, expiresAt, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if expiresAt.IsZero() {
		t.Error("expiry not set")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != domain.RoleTechnician {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.DepartmentID == nil || *claims.DepartmentID != "mechanical" {
		t.Error("DepartmentID not carried")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(&domain.User{ID: "user-1", Role: domain.RoleEndUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Error("garbage token must be rejected")
	}
}
