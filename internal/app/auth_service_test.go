package app

import (
	"context"
	"testing"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/security"
)

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	users := newFakeUserRepo()
	refreshTokens := newFakeRefreshTokenRepo()
	jwtProvider := security.NewJWTProvider("secret")
	service := NewAuthService(users, refreshTokens, jwtProvider, nil, time.Minute, time.Hour)
	return service, users, refreshTokens
}

func TestAuthServiceRegister_IssuesTokenPair(t *testing.T) {
	service, users, _ := newTestAuthService()

	result, err := service.Register(context.Background(), RegisterInput{
		Email:     "Anna@Example.com",
		Password:  "wachtwoord123",
		FirstName: "Anna",
		LastName:  "Bakker",
		Role:      "organisatie",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Tokens == nil || result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if result.User.Email != "anna@example.com" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
	if result.User.Role != user.RoleOrganisation {
		t.Fatalf("expected organisatie role, got %q", result.User.Role)
	}
	if result.User.PasswordHash == "wachtwoord123" {
		t.Fatal("password stored in plaintext")
	}
	if _, err := users.GetByEmail(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("expected user persisted, got %v", err)
	}
}

func TestAuthServiceRegister_ShortPassword(t *testing.T) {
	service, _, _ := newTestAuthService()

	_, err := service.Register(context.Background(), RegisterInput{Email: "a@b.nl", Password: "kort"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthServiceRegister_InvalidRole(t *testing.T) {
	service, _, _ := newTestAuthService()

	_, err := service.Register(context.Background(), RegisterInput{Email: "a@b.nl", Password: "wachtwoord123", Role: "admin"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	service, _, _ := newTestAuthService()
	if _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.nl", Password: "wachtwoord123"}); err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}

	result, err := service.Login(context.Background(), "a@b.nl", "wachtwoord123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Tokens.AccessToken == "" {
		t.Fatal("expected access token")
	}

	if _, err := service.Login(context.Background(), "a@b.nl", "verkeerd-wachtwoord"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if _, err := service.Login(context.Background(), "onbekend@b.nl", "wachtwoord123"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestAuthServiceRefresh_RotatesToken(t *testing.T) {
	service, _, refreshTokens := newTestAuthService()
	registered, err := service.Register(context.Background(), RegisterInput{Email: "a@b.nl", Password: "wachtwoord123"})
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if refreshed.Tokens.RefreshToken == registered.Tokens.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
	old, _ := refreshTokens.GetByToken(context.Background(), registered.Tokens.RefreshToken)
	if old.RevokedAt == nil {
		t.Fatal("expected old refresh token revoked")
	}

	if _, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}

	// Reuse of a rotated token revokes every session of the user.
	if _, err := service.Refresh(context.Background(), refreshed.Tokens.RefreshToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected sessions revoked after reuse, got %v", err)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	service, _, refreshTokens := newTestAuthService()
	registered, err := service.Register(context.Background(), RegisterInput{Email: "a@b.nl", Password: "wachtwoord123"})
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}

	if err := service.Logout(context.Background(), registered.Tokens.RefreshToken); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	stored, _ := refreshTokens.GetByToken(context.Background(), registered.Tokens.RefreshToken)
	if stored.RevokedAt == nil {
		t.Fatal("expected refresh token revoked")
	}
}

func TestLedgerServiceDeductCredits_FloorsAtZero(t *testing.T) {
	users := newFakeUserRepo()
	transactions := newFakeTransactionRepo()
	service := NewLedgerService(users, transactions)
	account, err := users.Create(context.Background(), user.User{Email: "a@b.nl", Credits: 2})
	if err != nil {
		t.Fatalf("expected user created, got %v", err)
	}

	updated, err := service.DeductCredits(context.Background(), account.ID, 5)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Credits != 0 {
		t.Fatalf("expected credits floored at 0, got %d", updated.Credits)
	}

	updated, err = service.AddCredits(context.Background(), account.ID, 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Credits != 3 {
		t.Fatalf("expected 3 credits, got %d", updated.Credits)
	}
}
