package app

import (
	"context"
	"fmt"
	"strconv"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/billing"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/integration/stripe"
)

const (
	vacancyCreditPriceCents   = 4900
	subscriptionPriceCents    = 14900
	billingCurrency           = "eur"
	subscriptionProductName   = "ZorgMatch Premium Abonnement - Onbeperkt vacatures plaatsen"
	paymentTypeVacancyCredit  = "vacancy_credit"
	paymentUnavailableMessage = "payment provider not configured"
)

// PaymentClient is the payment-provider capability the billing flows need.
// It is injected so environments without a provider run with nil and tests
// substitute a double.
type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*stripe.Customer, error)
	CreateSubscription(ctx context.Context, customerID string, amountCents int64, currency, productName string) (*stripe.Subscription, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// BillingService drives credit purchases and the monthly subscription. All
// balance and stripe-info writes go through the ledger so billing never
// touches the user row directly.
type BillingService struct {
	payments PaymentClient
	users    user.Repository
	ledger   *LedgerService
	logger   Logger
}

func NewBillingService(payments PaymentClient, users user.Repository, ledger *LedgerService, logger Logger) *BillingService {
	return &BillingService{payments: payments, users: users, ledger: ledger, logger: logger}
}

type PaymentIntentResult struct {
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Credits      int     `json:"credits,omitempty"`
}

type SubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
}

// CreatePaymentIntent opens a payment for a pack of credits. The credit count
// travels in the intent metadata and is read back on confirmation.
func (s *BillingService) CreatePaymentIntent(ctx context.Context, userID common.UUID, credits int, priceEuros float64) (*PaymentIntentResult, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	if credits <= 0 {
		return nil, common.NewValidationError("invalid purchase", map[string]string{"credits": "credits must be positive"})
	}
	if priceEuros <= 0 {
		return nil, common.NewValidationError("invalid purchase", map[string]string{"price": "price must be positive"})
	}
	intent, err := s.payments.CreatePaymentIntent(ctx, int64(priceEuros*100+0.5), billingCurrency, map[string]string{
		"userId":  userID.String(),
		"credits": strconv.Itoa(credits),
	})
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create payment intent", err)
	}
	return &PaymentIntentResult{ClientSecret: intent.ClientSecret, Amount: priceEuros, Credits: credits}, nil
}

// ConfirmPayment checks the intent succeeded and belongs to the caller, then
// credits the balance and records the purchase.
func (s *BillingService) ConfirmPayment(ctx context.Context, userID common.UUID, paymentIntentID string) (*user.User, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	intent, err := s.payments.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to fetch payment intent", err)
	}
	if intent.Status != "succeeded" || intent.Metadata["userId"] != userID.String() {
		return nil, common.NewError(common.CodeValidation, "payment not completed", nil)
	}
	credits, _ := strconv.Atoi(intent.Metadata["credits"])
	if credits <= 0 {
		return nil, common.NewError(common.CodeValidation, "payment carries no credits", nil)
	}
	updated, err := s.ledger.AddCredits(ctx, userID, credits)
	if err != nil {
		return nil, err
	}
	creditsDelta := credits
	if _, err := s.ledger.Record(ctx, billing.Transaction{
		UserID:                userID,
		Type:                  billing.TypeCreditPurchase,
		Amount:                formatEuros(intent.Amount),
		Credits:               &creditsDelta,
		StripePaymentIntentID: paymentIntentID,
		Description:           fmt.Sprintf("Aankoop van %d credits", credits),
		Status:                billing.StatusCompleted,
	}); err != nil {
		s.logError(fmt.Sprintf("failed to record credit purchase user_id=%s", userID))
	}
	s.logInfo(fmt.Sprintf("credits purchased user_id=%s credits=%d", userID, credits))
	return updated, nil
}

// PurchaseVacancyCredit opens the fixed-price payment for one vacancy credit.
func (s *BillingService) PurchaseVacancyCredit(ctx context.Context, userID common.UUID) (*PaymentIntentResult, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	intent, err := s.payments.CreatePaymentIntent(ctx, vacancyCreditPriceCents, billingCurrency, map[string]string{
		"userId": userID.String(),
		"type":   paymentTypeVacancyCredit,
	})
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create payment intent", err)
	}
	return &PaymentIntentResult{ClientSecret: intent.ClientSecret, Amount: vacancyCreditPriceCents / 100}, nil
}

// ConfirmVacancyPayment adds the single credit after a successful €49 payment.
func (s *BillingService) ConfirmVacancyPayment(ctx context.Context, userID common.UUID, paymentIntentID string) (*user.User, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	intent, err := s.payments.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to fetch payment intent", err)
	}
	if intent.Status != "succeeded" || intent.Metadata["userId"] != userID.String() {
		return nil, common.NewError(common.CodeValidation, "payment not completed", nil)
	}
	updated, err := s.ledger.AddCredits(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	one := 1
	if _, err := s.ledger.Record(ctx, billing.Transaction{
		UserID:                userID,
		Type:                  billing.TypeVacancyCreditPurchase,
		Amount:                formatEuros(intent.Amount),
		Credits:               &one,
		StripePaymentIntentID: paymentIntentID,
		Description:           "Aankoop vacature credit - €49",
		Status:                billing.StatusCompleted,
	}); err != nil {
		s.logError(fmt.Sprintf("failed to record vacancy credit purchase user_id=%s", userID))
	}
	s.logInfo(fmt.Sprintf("vacancy credit purchased user_id=%s", userID))
	return updated, nil
}

// CreateSubscription opens the €149/month subscription, creating the payment
// customer on first use. The returned client secret completes the first
// invoice on the frontend.
func (s *BillingService) CreateSubscription(ctx context.Context, userID common.UUID) (*SubscriptionResult, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.StripeSubscriptionID != "" && account.SubscriptionStatus == user.SubscriptionActive {
		return nil, common.NewError(common.CodeConflict, "subscription already active", nil)
	}
	customerID := account.StripeCustomerID
	if customerID == "" {
		customer, err := s.payments.CreateCustomer(ctx, account.Email, displayName(account), map[string]string{"userId": userID.String()})
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to create customer", err)
		}
		customerID = customer.ID
		if _, err := s.ledger.UpdateStripeInfo(ctx, userID, customerID, "", ""); err != nil {
			return nil, err
		}
	}
	subscription, err := s.payments.CreateSubscription(ctx, customerID, subscriptionPriceCents, billingCurrency, subscriptionProductName)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create subscription", err)
	}
	if _, err := s.ledger.UpdateStripeInfo(ctx, userID, customerID, subscription.ID, subscription.Status); err != nil {
		return nil, err
	}
	if _, err := s.ledger.Record(ctx, billing.Transaction{
		UserID:      userID,
		Type:        billing.TypeSubscriptionPayment,
		Amount:      formatEuros(subscriptionPriceCents),
		Description: "Maandelijks abonnement - ZorgMatch Premium",
		Status:      billing.StatusCompleted,
	}); err != nil {
		s.logError(fmt.Sprintf("failed to record subscription payment user_id=%s", userID))
	}
	s.logInfo(fmt.Sprintf("subscription created user_id=%s subscription_id=%s", userID, subscription.ID))
	return &SubscriptionResult{SubscriptionID: subscription.ID, ClientSecret: subscription.ClientSecret}, nil
}

type CancelSubscriptionResult struct {
	CancelAt int64 `json:"cancel_at,omitempty"`
}

// CancelSubscription schedules cancellation at the end of the billing period;
// the subscription stays usable until then.
func (s *BillingService) CancelSubscription(ctx context.Context, userID common.UUID) (*CancelSubscriptionResult, error) {
	if s.payments == nil {
		return nil, common.NewError(common.CodeUnavailable, paymentUnavailableMessage, nil)
	}
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.StripeSubscriptionID == "" {
		return nil, common.NewError(common.CodeNotFound, "no active subscription", nil)
	}
	subscription, err := s.payments.CancelAtPeriodEnd(ctx, account.StripeSubscriptionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to cancel subscription", err)
	}
	if _, err := s.ledger.UpdateStripeInfo(ctx, userID, account.StripeCustomerID, account.StripeSubscriptionID, subscription.Status); err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("subscription cancellation scheduled user_id=%s", userID))
	return &CancelSubscriptionResult{CancelAt: subscription.CancelAt}, nil
}

func formatEuros(amountCents int64) string {
	return strconv.FormatFloat(float64(amountCents)/100, 'f', 2, 64)
}

func (s *BillingService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

func (s *BillingService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}
