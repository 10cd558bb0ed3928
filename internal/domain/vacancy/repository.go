package vacancy

import (
	"context"

	"zorgmatch/internal/common"
)

type Repository interface {
	// CreateEntitled decides and executes the entitlement outcome for a
	// vacancy creation in one database transaction: it locks the owner's user
	// row, counts existing vacancies, deducts a credit when one is consumed,
	// records the matching ledger transaction, and inserts the vacancy.
	// Rejections surface as a common.CodePaymentRequired error and leave no
	// side effects.
	CreateEntitled(ctx context.Context, v Vacancy) (*Vacancy, Entitlement, error)
	GetByID(ctx context.Context, id common.UUID) (*Vacancy, error)
	ListActive(ctx context.Context) ([]Vacancy, error)
	ListByOwner(ctx context.Context, userID common.UUID) ([]Vacancy, error)
	CountByOwner(ctx context.Context, userID common.UUID) (int, error)
}
