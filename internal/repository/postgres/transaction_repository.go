package postgres

import (
	"context"
	"database/sql"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/billing"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertTransaction is shared with the entitlement transaction inside
// VacancyRepository.CreateEntitled.
func insertTransaction(ctx context.Context, db execer, t billing.Transaction) error {
	if t.ID.IsZero() {
		t.ID = common.NewUUID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `INSERT INTO transactions (id, user_id, type, amount, credits, stripe_payment_intent_id, description, status, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, NULLIF($6, ''), $7, $8, $9)`,
		t.ID, t.UserID, t.Type, t.Amount, t.Credits, t.StripePaymentIntentID, t.Description, t.Status, t.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to record transaction", err)
	}
	return nil
}

func (r *TransactionRepository) Record(ctx context.Context, t billing.Transaction) (*billing.Transaction, error) {
	t.ID = common.NewUUID()
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = billing.StatusCompleted
	}
	if err := insertTransaction(ctx, r.db, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListForUser(ctx context.Context, userID common.UUID) ([]billing.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, type, amount::text, credits, stripe_payment_intent_id, description, status, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list transactions", err)
	}
	defer rows.Close()
	var items []billing.Transaction
	for rows.Next() {
		var t billing.Transaction
		var credits sql.NullInt64
		var intentID sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &credits, &intentID, &t.Description, &t.Status, &t.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan transaction", err)
		}
		if credits.Valid {
			value := int(credits.Int64)
			t.Credits = &value
		}
		t.StripePaymentIntentID = intentID.String
		items = append(items, t)
	}
	return items, nil
}
