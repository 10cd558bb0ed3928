package app

import (
	"context"
	"fmt"
	"strings"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/domain/vacancy"
)

// VacancyService validates vacancy input and drives creation through the
// entitlement gate.
type VacancyService struct {
	repo   vacancy.Repository
	users  user.Repository
	logger Logger
}

func NewVacancyService(repo vacancy.Repository, users user.Repository, logger Logger) *VacancyService {
	return &VacancyService{repo: repo, users: users, logger: logger}
}

// Create inserts a vacancy for the organisation, paying for it with whichever
// entitlement applies: the first vacancy is free, an active subscription
// covers unlimited vacancies, otherwise one credit is consumed. With none of
// those available the call fails with CodePaymentRequired and nothing is
// written.
func (s *VacancyService) Create(ctx context.Context, v vacancy.Vacancy) (*vacancy.Vacancy, vacancy.Entitlement, error) {
	account, err := s.users.GetByID(ctx, v.UserID)
	if err != nil {
		return nil, "", err
	}
	if account.Role != user.RoleOrganisation {
		return nil, "", common.NewError(common.CodeForbidden, "only organisations can post vacancies", nil)
	}
	if err := validateVacancy(v); err != nil {
		return nil, "", err
	}
	if v.Status == "" {
		v.Status = vacancy.StatusActive
	}
	created, entitlement, err := s.repo.CreateEntitled(ctx, v)
	if err != nil {
		if common.Is(err, common.CodePaymentRequired) {
			s.logInfo(fmt.Sprintf("vacancy creation requires payment user_id=%s", v.UserID))
		}
		return nil, "", err
	}
	s.logInfo(fmt.Sprintf("vacancy created vacancy_id=%s entitlement=%s", created.ID, entitlement))
	return created, entitlement, nil
}

func (s *VacancyService) Get(ctx context.Context, id common.UUID) (*vacancy.Vacancy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VacancyService) ListActive(ctx context.Context) ([]vacancy.Vacancy, error) {
	return s.repo.ListActive(ctx)
}

func (s *VacancyService) ListOwn(ctx context.Context, userID common.UUID) ([]vacancy.Vacancy, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *VacancyService) CountOwn(ctx context.Context, userID common.UUID) (int, error) {
	return s.repo.CountByOwner(ctx, userID)
}

func validateVacancy(v vacancy.Vacancy) error {
	fields := map[string]string{}
	if strings.TrimSpace(v.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(v.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(v.OrganisationName) == "" {
		fields["organisation_name"] = "organisation name is required"
	}
	if strings.TrimSpace(v.Location) == "" {
		fields["location"] = "location is required"
	}
	if strings.TrimSpace(v.ContractType) == "" {
		fields["contract_type"] = "contract type is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid vacancy", fields)
	}
	return nil
}

func (s *VacancyService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}
