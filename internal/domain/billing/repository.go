package billing

import (
	"context"

	"zorgmatch/internal/common"
)

type TransactionRepository interface {
	Record(ctx context.Context, t Transaction) (*Transaction, error)
	ListForUser(ctx context.Context, userID common.UUID) ([]Transaction, error)
}
