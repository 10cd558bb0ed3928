package billing

import (
	"time"

	"zorgmatch/internal/common"
)

// Transaction types recorded in the ledger audit trail.
const (
	TypeVacancyFree           = "vacancy_free"
	TypeVacancyCredit         = "vacancy_credit"
	TypeCreditPurchase        = "credit_purchase"
	TypeVacancyCreditPurchase = "vacancy_credit_purchase"
	TypeSubscriptionPayment   = "subscription_payment"
)

const StatusCompleted = "completed"

// Transaction is an append-only ledger entry. Amount is a decimal string
// (euros); Credits is the signed credit delta, nil when no credits moved.
// Rows are never updated or deleted after insertion. The live entitlement
// truth stays on the user row; this log is display and audit only.
type Transaction struct {
	ID                    common.UUID `json:"id"`
	UserID                common.UUID `json:"user_id"`
	Type                  string      `json:"type"`
	Amount                string      `json:"amount"`
	Credits               *int        `json:"credits,omitempty"`
	StripePaymentIntentID string      `json:"stripe_payment_intent_id,omitempty"`
	Description           string      `json:"description"`
	Status                string      `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
}
