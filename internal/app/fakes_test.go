package app

import (
	"context"
	"sync"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/application"
	"zorgmatch/internal/domain/auth"
	"zorgmatch/internal/domain/billing"
	"zorgmatch/internal/domain/message"
	"zorgmatch/internal/domain/profile"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/domain/vacancy"
	"zorgmatch/internal/integration/stripe"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[common.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	}
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return cloneUser(&stored), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneUser(account), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneUser(account), nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id common.UUID, role user.Role) (*user.User, error) {
	return r.update(id, func(account *user.User) { account.Role = role })
}

func (r *fakeUserRepo) UpdateCredits(ctx context.Context, id common.UUID, credits int) (*user.User, error) {
	if credits < 0 {
		credits = 0
	}
	return r.update(id, func(account *user.User) { account.Credits = credits })
}

func (r *fakeUserRepo) UpdateStripeInfo(ctx context.Context, id common.UUID, customerID, subscriptionID, subscriptionStatus string) (*user.User, error) {
	return r.update(id, func(account *user.User) {
		if customerID != "" {
			account.StripeCustomerID = customerID
		}
		if subscriptionID != "" {
			account.StripeSubscriptionID = subscriptionID
		}
		if subscriptionStatus != "" {
			account.SubscriptionStatus = subscriptionStatus
		}
	})
}

func (r *fakeUserRepo) UpdateOnlineStatus(ctx context.Context, id common.UUID, isOnline bool) (*user.User, error) {
	return r.update(id, func(account *user.User) {
		account.IsOnline = isOnline
		now := time.Now().UTC()
		account.LastSeen = &now
	})
}

func (r *fakeUserRepo) UpdateOnlineStatusPreference(ctx context.Context, id common.UUID, show bool) (*user.User, error) {
	return r.update(id, func(account *user.User) { account.ShowOnlineStatus = show })
}

func (r *fakeUserRepo) update(id common.UUID, apply func(*user.User)) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	apply(account)
	account.UpdatedAt = time.Now().UTC()
	return cloneUser(account), nil
}

func cloneUser(account *user.User) *user.User {
	clone := *account
	if account.LastSeen != nil {
		lastSeen := *account.LastSeen
		clone.LastSeen = &lastSeen
	}
	return &clone
}

type fakeTransactionRepo struct {
	mu    sync.Mutex
	items []billing.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Record(ctx context.Context, t billing.Transaction) (*billing.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = common.NewUUID()
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = billing.StatusCompleted
	}
	r.items = append(r.items, t)
	stored := t
	return &stored, nil
}

func (r *fakeTransactionRepo) ListForUser(ctx context.Context, userID common.UUID) ([]billing.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]billing.Transaction, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			result = append(result, r.items[i])
		}
	}
	return result, nil
}

// fakeVacancyRepo reproduces the entitlement transaction of the SQL
// implementation against in-memory user state, using the same decision
// policy.
type fakeVacancyRepo struct {
	mu           sync.Mutex
	users        *fakeUserRepo
	transactions *fakeTransactionRepo
	items        []vacancy.Vacancy
}

func newFakeVacancyRepo(users *fakeUserRepo, transactions *fakeTransactionRepo) *fakeVacancyRepo {
	return &fakeVacancyRepo{users: users, transactions: transactions}
}

func (r *fakeVacancyRepo) CreateEntitled(ctx context.Context, v vacancy.Vacancy) (*vacancy.Vacancy, vacancy.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, err := r.users.GetByID(ctx, v.UserID)
	if err != nil {
		return nil, "", err
	}
	count := 0
	for _, existing := range r.items {
		if existing.UserID == v.UserID {
			count++
		}
	}
	entitlement, err := vacancy.DecideEntitlement(count, account.SubscriptionStatus, account.Credits)
	if err != nil {
		return nil, "", err
	}
	switch entitlement {
	case vacancy.EntitlementFree:
		_, _ = r.transactions.Record(ctx, billing.Transaction{
			UserID:      v.UserID,
			Type:        billing.TypeVacancyFree,
			Amount:      "0",
			Description: "Eerste vacature gratis geplaatst",
		})
	case vacancy.EntitlementCredit:
		if _, err := r.users.UpdateCredits(ctx, v.UserID, account.Credits-1); err != nil {
			return nil, "", err
		}
		minusOne := -1
		_, _ = r.transactions.Record(ctx, billing.Transaction{
			UserID:      v.UserID,
			Type:        billing.TypeVacancyCredit,
			Amount:      "0",
			Credits:     &minusOne,
			Description: "Vacature credit gebruikt voor advertentie",
		})
	}
	v.ID = common.NewUUID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = vacancy.StatusActive
	}
	r.items = append(r.items, v)
	stored := v
	return &stored, entitlement, nil
}

func (r *fakeVacancyRepo) GetByID(ctx context.Context, id common.UUID) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			stored := item
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
}

func (r *fakeVacancyRepo) ListActive(ctx context.Context) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]vacancy.Vacancy, 0)
	for _, item := range r.items {
		if item.Status == vacancy.StatusActive {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeVacancyRepo) ListByOwner(ctx context.Context, userID common.UUID) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]vacancy.Vacancy, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeVacancyRepo) CountByOwner(ctx context.Context, userID common.UUID) (int, error) {
	items, _ := r.ListByOwner(ctx, userID)
	return len(items), nil
}

type fakeApplicationRepo struct {
	mu        sync.Mutex
	vacancies *fakeVacancyRepo
	items     []application.Application
}

func newFakeApplicationRepo(vacancies *fakeVacancyRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{vacancies: vacancies}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, a application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = application.StatusPending
	}
	r.items = append(r.items, a)
	stored := a
	return &stored, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			stored := item
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]application.Application, 0)
	for _, item := range r.items {
		if item.ApplicantID == applicantID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) ListForTarget(ctx context.Context, targetType string, targetID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]application.Application, 0)
	for _, item := range r.items {
		if item.TargetType == targetType && item.TargetID == targetID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) ListForOwner(ctx context.Context, ownerID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]application.Application, 0)
	for _, item := range r.items {
		if item.TargetType != application.TargetVacancy {
			continue
		}
		target, err := r.vacancies.GetByID(ctx, item.TargetID)
		if err != nil {
			continue
		}
		if target.UserID == ownerID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			r.items[i].UpdatedAt = time.Now().UTC()
			stored := r.items[i]
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) MarkResponded(ctx context.Context, ownerID, applicantID common.UUID, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamped := 0
	for i := range r.items {
		item := &r.items[i]
		if item.ApplicantID != applicantID || item.TargetType != application.TargetVacancy || item.RespondedAt != nil {
			continue
		}
		target, err := r.vacancies.GetByID(ctx, item.TargetID)
		if err != nil || target.UserID != ownerID {
			continue
		}
		respondedAt := at
		item.RespondedAt = &respondedAt
		item.UpdatedAt = at
		stamped++
	}
	return stamped, nil
}

type fakeMessageRepo struct {
	mu    sync.Mutex
	items []message.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m message.Message) (*message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	r.items = append(r.items, m)
	stored := m
	return &stored, nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, userID, otherUserID common.UUID) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]message.Message, 0)
	for _, item := range r.items {
		if (item.SenderID == userID && item.ReceiverID == otherUserID) ||
			(item.SenderID == otherUserID && item.ReceiverID == userID) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) ListAll(ctx context.Context, userID common.UUID) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]message.Message, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		item := r.items[i]
		if item.SenderID == userID || item.ReceiverID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, receiverID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, item := range r.items {
		if item.ReceiverID == receiverID && !item.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsRead = true
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "message not found", nil)
}

type fakeProfileRepo struct {
	mu    sync.Mutex
	items []profile.ZzpProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{}
}

func (r *fakeProfileRepo) Create(ctx context.Context, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.UserID == p.UserID {
			return nil, common.NewError(common.CodeConflict, "profile already exists", nil)
		}
	}
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.items = append(r.items, p)
	stored := p
	return &stored, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, userID common.UUID, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].UserID == userID {
			p.ID = r.items[i].ID
			p.UserID = userID
			p.CreatedAt = r.items[i].CreatedAt
			p.UpdatedAt = time.Now().UTC()
			r.items[i] = p
			stored := p
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.ZzpProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.UserID == userID {
			stored := item
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id common.UUID) (*profile.ZzpProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			stored := item
			return &stored, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *fakeProfileRepo) ListAll(ctx context.Context) ([]profile.ZzpProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]profile.ZzpProfile(nil), r.items...), nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	stored := value
	return &stored, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	value.RevokedAt = &revokedAt
	r.tokens[token] = value
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAll(ctx context.Context, userID common.UUID, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	for key, value := range r.tokens {
		if value.UserID == userID {
			value.RevokedAt = &revokedAt
			r.tokens[key] = value
		}
	}
	return nil
}

type fakePaymentClient struct {
	mu            sync.Mutex
	intents       map[string]*stripe.PaymentIntent
	subscriptions map[string]*stripe.Subscription
	customerSeq   int
	intentSeq     int
}

func newFakePaymentClient() *fakePaymentClient {
	return &fakePaymentClient{
		intents:       make(map[string]*stripe.PaymentIntent),
		subscriptions: make(map[string]*stripe.Subscription),
	}
}

func (c *fakePaymentClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intentSeq++
	copied := make(map[string]string, len(metadata))
	for key, value := range metadata {
		copied[key] = value
	}
	intent := &stripe.PaymentIntent{
		ID:           common.NewUUID().String(),
		ClientSecret: "secret_" + common.NewUUID().String(),
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Currency:     currency,
		Metadata:     copied,
	}
	c.intents[intent.ID] = intent
	return intent, nil
}

func (c *fakePaymentClient) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	intent, ok := c.intents[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "payment intent not found", nil)
	}
	stored := *intent
	return &stored, nil
}

func (c *fakePaymentClient) succeed(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if intent, ok := c.intents[id]; ok {
		intent.Status = "succeeded"
	}
}

func (c *fakePaymentClient) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*stripe.Customer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerSeq++
	return &stripe.Customer{ID: common.NewUUID().String(), Email: email}, nil
}

func (c *fakePaymentClient) CreateSubscription(ctx context.Context, customerID string, amountCents int64, currency, productName string) (*stripe.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := &stripe.Subscription{
		ID:           common.NewUUID().String(),
		Status:       "incomplete",
		ClientSecret: "secret_" + common.NewUUID().String(),
	}
	c.subscriptions[sub.ID] = sub
	return sub, nil
}

func (c *fakePaymentClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.subscriptions[subscriptionID]
	if !ok {
		sub = &stripe.Subscription{ID: subscriptionID}
		c.subscriptions[subscriptionID] = sub
	}
	sub.Status = "canceling"
	sub.CancelAt = time.Now().Add(30 * 24 * time.Hour).Unix()
	stored := *sub
	return &stored, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	nudges  []common.UUID
	payload []any
}

func (n *fakeNotifier) Notify(userID common.UUID, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nudges = append(n.nudges, userID)
	n.payload = append(n.payload, payload)
}
