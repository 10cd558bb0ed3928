package app

import (
	"context"
	"testing"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/billing"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/domain/vacancy"
)

func newTestVacancyService() (*VacancyService, *fakeUserRepo, *fakeVacancyRepo, *fakeTransactionRepo) {
	users := newFakeUserRepo()
	transactions := newFakeTransactionRepo()
	vacancies := newFakeVacancyRepo(users, transactions)
	service := NewVacancyService(vacancies, users, nil)
	return service, users, vacancies, transactions
}

func createOrganisation(t *testing.T, users *fakeUserRepo, credits int, subscriptionStatus string) *user.User {
	t.Helper()
	account, err := users.Create(context.Background(), user.User{
		Email:              "org@example.com",
		Role:               user.RoleOrganisation,
		Credits:            credits,
		SubscriptionStatus: subscriptionStatus,
	})
	if err != nil {
		t.Fatalf("expected organisation created, got %v", err)
	}
	return account
}

func validVacancy(ownerID common.UUID) vacancy.Vacancy {
	return vacancy.Vacancy{
		UserID:           ownerID,
		OrganisationName: "Zorggroep Noord",
		Title:            "Verpleegkundige nachtdienst",
		Description:      "Nachtdiensten in woonzorgcentrum",
		Requirements:     []string{"BIG-registratie"},
		Location:         "Groningen",
		ContractType:     "zzp",
	}
}

func TestVacancyServiceCreate_FirstVacancyFree(t *testing.T) {
	service, users, _, transactions := newTestVacancyService()
	org := createOrganisation(t, users, 0, "")

	created, entitlement, err := service.Create(context.Background(), validVacancy(org.ID))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if entitlement != vacancy.EntitlementFree {
		t.Fatalf("expected free entitlement, got %s", entitlement)
	}
	if created.Status != vacancy.StatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}
	items, _ := transactions.ListForUser(context.Background(), org.ID)
	if len(items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(items))
	}
	if items[0].Type != billing.TypeVacancyFree {
		t.Fatalf("expected vacancy_free transaction, got %s", items[0].Type)
	}
	if items[0].Amount != "0" {
		t.Fatalf("expected amount 0, got %s", items[0].Amount)
	}
}

func TestVacancyServiceCreate_NoEntitlement(t *testing.T) {
	service, users, vacancies, transactions := newTestVacancyService()
	org := createOrganisation(t, users, 0, "")

	if _, _, err := service.Create(context.Background(), validVacancy(org.ID)); err != nil {
		t.Fatalf("expected first vacancy to succeed, got %v", err)
	}

	_, _, err := service.Create(context.Background(), validVacancy(org.ID))
	if !common.Is(err, common.CodePaymentRequired) {
		t.Fatalf("expected payment required error, got %v", err)
	}
	count, _ := vacancies.CountByOwner(context.Background(), org.ID)
	if count != 1 {
		t.Fatalf("expected no vacancy inserted, got %d", count)
	}
	items, _ := transactions.ListForUser(context.Background(), org.ID)
	if len(items) != 1 {
		t.Fatalf("expected no extra transaction, got %d", len(items))
	}
	account, _ := users.GetByID(context.Background(), org.ID)
	if account.Credits != 0 {
		t.Fatalf("expected credits untouched, got %d", account.Credits)
	}
}

func TestVacancyServiceCreate_ConsumesOneCredit(t *testing.T) {
	service, users, _, transactions := newTestVacancyService()
	org := createOrganisation(t, users, 3, "")

	if _, _, err := service.Create(context.Background(), validVacancy(org.ID)); err != nil {
		t.Fatalf("expected first vacancy to succeed, got %v", err)
	}
	_, entitlement, err := service.Create(context.Background(), validVacancy(org.ID))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if entitlement != vacancy.EntitlementCredit {
		t.Fatalf("expected credit entitlement, got %s", entitlement)
	}
	account, _ := users.GetByID(context.Background(), org.ID)
	if account.Credits != 2 {
		t.Fatalf("expected 2 credits left, got %d", account.Credits)
	}
	items, _ := transactions.ListForUser(context.Background(), org.ID)
	if len(items) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(items))
	}
	latest := items[0]
	if latest.Type != billing.TypeVacancyCredit {
		t.Fatalf("expected vacancy_credit transaction, got %s", latest.Type)
	}
	if latest.Credits == nil || *latest.Credits != -1 {
		t.Fatal("expected credits delta of -1")
	}
}

func TestVacancyServiceCreate_SubscriptionBypassesCredits(t *testing.T) {
	service, users, _, _ := newTestVacancyService()
	org := createOrganisation(t, users, 5, user.SubscriptionActive)

	if _, _, err := service.Create(context.Background(), validVacancy(org.ID)); err != nil {
		t.Fatalf("expected first vacancy to succeed, got %v", err)
	}
	_, entitlement, err := service.Create(context.Background(), validVacancy(org.ID))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if entitlement != vacancy.EntitlementSubscription {
		t.Fatalf("expected subscription entitlement, got %s", entitlement)
	}
	account, _ := users.GetByID(context.Background(), org.ID)
	if account.Credits != 5 {
		t.Fatalf("expected credits untouched, got %d", account.Credits)
	}
}

func TestVacancyServiceCreate_RejectsZzper(t *testing.T) {
	service, users, _, _ := newTestVacancyService()
	account, err := users.Create(context.Background(), user.User{Email: "zzp@example.com", Role: user.RoleZzper})
	if err != nil {
		t.Fatalf("expected user created, got %v", err)
	}

	_, _, err = service.Create(context.Background(), validVacancy(account.ID))
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestVacancyServiceCreate_ValidationFailure(t *testing.T) {
	service, users, _, _ := newTestVacancyService()
	org := createOrganisation(t, users, 0, "")

	invalid := validVacancy(org.ID)
	invalid.Title = ""
	_, _, err := service.Create(context.Background(), invalid)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
