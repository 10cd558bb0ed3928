package user

import (
	"context"

	"zorgmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateRole(ctx context.Context, id common.UUID, role Role) (*User, error)
	UpdateCredits(ctx context.Context, id common.UUID, credits int) (*User, error)
	UpdateStripeInfo(ctx context.Context, id common.UUID, customerID, subscriptionID, subscriptionStatus string) (*User, error)
	UpdateOnlineStatus(ctx context.Context, id common.UUID, isOnline bool) (*User, error)
	UpdateOnlineStatusPreference(ctx context.Context, id common.UUID, show bool) (*User, error)
}
