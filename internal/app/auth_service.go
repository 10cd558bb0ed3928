package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/auth"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/security"
)

const minPasswordLength = 8

type Logger interface {
	Info(msg string)
	Error(msg string)
}

// AuthService handles registration, login and the refresh token lifecycle.
type AuthService struct {
	users         user.Repository
	refreshTokens auth.RefreshTokenRepository
	jwtProvider   *security.JWTProvider
	logger        Logger
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(users user.Repository, refreshTokens auth.RefreshTokenRepository, jwtProvider *security.JWTProvider, logger Logger, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwtProvider:   jwtProvider,
		logger:        logger,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type AuthResult struct {
	User   *user.User
	Tokens *auth.TokenPair
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email is invalid"
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}
	role := user.Role("")
	if strings.TrimSpace(input.Role) != "" {
		normalized, err := normalizeRoleValue(input.Role)
		if err != nil {
			return nil, err
		}
		role = normalized
	}
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.users.Create(ctx, user.User{
		Email:            email,
		PasswordHash:     hash,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Role:             role,
		ShowOnlineStatus: true,
	})
	if err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user registered user_id=%s", account.ID))
	return &AuthResult{User: account, Tokens: pair}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.NewValidationError("invalid credentials", map[string]string{"email": "email and password are required"})
	}
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
		}
		return nil, err
	}
	if !security.VerifyPassword(account.PasswordHash, password) {
		s.logInfo(fmt.Sprintf("login failed user_id=%s", account.ID))
		return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user logged in user_id=%s", account.ID))
	return &AuthResult{User: account, Tokens: pair}, nil
}

func (s *AuthService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	stored, err := s.refreshTokens.GetByToken(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "refresh token not found", nil)
		}
		return nil, err
	}
	if stored.RevokedAt != nil {
		// Replay of a rotated token means the chain leaked somewhere; kill
		// every session for the user.
		if err := s.refreshTokens.RevokeAll(ctx, stored.UserID, s.now().Unix()); err != nil {
			s.logError(fmt.Sprintf("failed to revoke sessions user_id=%s", stored.UserID))
		}
		return nil, common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	if stored.ExpiresAt.Before(s.now()) {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokens.Revoke(ctx, token, s.now().Unix()); err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Tokens: pair}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.refreshTokens.Revoke(ctx, token, s.now().Unix())
	if err == nil {
		s.logInfo("user logged out")
	}
	return err
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	refreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	refresh := auth.RefreshToken{
		ID:        common.NewUUID(),
		UserID:    account.ID,
		Token:     refreshValue,
		ExpiresAt: s.now().Add(s.refreshTTL),
		CreatedAt: s.now(),
	}
	if err := s.refreshTokens.Store(ctx, refresh); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue, ExpiresAt: expiresAt}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

func normalizeRoleValue(value string) (user.Role, error) {
	normalized := user.Role(strings.ToLower(strings.TrimSpace(value)))
	if normalized != user.RoleZzper && normalized != user.RoleOrganisation {
		return "", common.NewValidationError("invalid role", map[string]string{"role": "role must be zzper or organisatie"})
	}
	return normalized, nil
}

func (s *AuthService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

func (s *AuthService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}
