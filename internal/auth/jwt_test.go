package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/baansom-pos/api/internal/enum"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	outletID := uuid.New()

	token, err := GenerateToken(testSecret, userID, outletID, enum.UserRoleCashier)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.OutletID != outletID {
		t.Errorf("outlet id = %s, want %s", claims.OutletID, outletID)
	}
	if claims.Role != enum.UserRoleCashier {
		t.Errorf("role = %q, want %q", claims.Role, enum.UserRoleCashier)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), uuid.New(), enum.UserRoleOwner)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken(testSecret, "not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateRefreshToken(testSecret, userID)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ValidateRefreshToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if got != userID {
		t.Errorf("user id = %s, want %s", got, userID)
	}
}

func TestValidateRefreshToken_NonUUIDSubject(t *testing.T) {
	// An access token has no subject, so it must not pass as a refresh token.
	token, err := GenerateToken(testSecret, uuid.New(), uuid.New(), enum.UserRoleKitchen)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ValidateRefreshToken(testSecret, token)
	if !errors.Is(err, ErrNotRefresh) {
		t.Fatalf("expected ErrNotRefresh, got: %v", err)
	}
}
