package profile

import (
	"context"

	"zorgmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, p ZzpProfile) (*ZzpProfile, error)
	Update(ctx context.Context, userID common.UUID, p ZzpProfile) (*ZzpProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*ZzpProfile, error)
	GetByID(ctx context.Context, id common.UUID) (*ZzpProfile, error)
	ListAll(ctx context.Context) ([]ZzpProfile, error)
}
