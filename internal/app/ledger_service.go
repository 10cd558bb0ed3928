package app

import (
	"context"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/billing"
	"zorgmatch/internal/domain/user"
)

// LedgerService owns the credit balance on the user row and the append-only
// transaction log beside it.
type LedgerService struct {
	users        user.Repository
	transactions billing.TransactionRepository
}

func NewLedgerService(users user.Repository, transactions billing.TransactionRepository) *LedgerService {
	return &LedgerService{users: users, transactions: transactions}
}

func (s *LedgerService) AddCredits(ctx context.Context, userID common.UUID, amount int) (*user.User, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("invalid credits", map[string]string{"credits": "credits must be positive"})
	}
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateCredits(ctx, userID, account.Credits+amount)
}

// DeductCredits lowers the balance, flooring at zero. Deducting from an empty
// balance is not an error; the balance simply stays at zero.
func (s *LedgerService) DeductCredits(ctx context.Context, userID common.UUID, amount int) (*user.User, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("invalid credits", map[string]string{"credits": "credits must be positive"})
	}
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := account.Credits - amount
	if next < 0 {
		next = 0
	}
	return s.users.UpdateCredits(ctx, userID, next)
}

func (s *LedgerService) UpdateStripeInfo(ctx context.Context, userID common.UUID, customerID, subscriptionID, subscriptionStatus string) (*user.User, error) {
	return s.users.UpdateStripeInfo(ctx, userID, customerID, subscriptionID, subscriptionStatus)
}

func (s *LedgerService) Record(ctx context.Context, t billing.Transaction) (*billing.Transaction, error) {
	return s.transactions.Record(ctx, t)
}

func (s *LedgerService) Transactions(ctx context.Context, userID common.UUID) ([]billing.Transaction, error) {
	return s.transactions.ListForUser(ctx, userID)
}
