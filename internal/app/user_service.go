package app

import (
	"context"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
)

// UserService exposes the account operations behind /auth/user.
type UserService struct {
	users user.Repository
}

func NewUserService(users user.Repository) *UserService {
	return &UserService{users: users}
}

// GetCurrent returns the account and marks it online as a side effect of the
// poll the frontend runs on every page load.
func (s *UserService) GetCurrent(ctx context.Context, userID common.UUID) (*user.User, error) {
	account, err := s.users.UpdateOnlineStatus(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *UserService) SetRole(ctx context.Context, userID common.UUID, role string) (*user.User, error) {
	normalized, err := normalizeRoleValue(role)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateRole(ctx, userID, normalized)
}

func (s *UserService) SetOnlineStatusPreference(ctx context.Context, userID common.UUID, show bool) (*user.User, error) {
	return s.users.UpdateOnlineStatusPreference(ctx, userID, show)
}
