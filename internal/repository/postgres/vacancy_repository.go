package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/billing"
	"zorgmatch/internal/domain/vacancy"
)

type VacancyRepository struct {
	db *sql.DB
}

func NewVacancyRepository(db *sql.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

const vacancyColumns = `id, user_id, organisation_name, title, description, requirements, location, contract_type, hourly_rate, education_level, status, created_at, updated_at`

// CreateEntitled runs the entitlement decision and the vacancy insert in a
// single transaction. The user row is locked for the duration so concurrent
// creations from the same account cannot both take the free slot or spend the
// same credit. Order of evaluation: first vacancy free, then active
// subscription, then a credit, otherwise payment required.
func (r *VacancyRepository) CreateEntitled(ctx context.Context, v vacancy.Vacancy) (*vacancy.Vacancy, vacancy.Entitlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var credits int
	var subscriptionStatus sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT credits, subscription_status FROM users WHERE id = $1 FOR UPDATE`, v.UserID).
		Scan(&credits, &subscriptionStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, "", common.NewError(common.CodeInternal, "failed to load user", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies WHERE user_id = $1`, v.UserID).Scan(&count); err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to count vacancies", err)
	}

	entitlement, err := vacancy.DecideEntitlement(count, subscriptionStatus.String, credits)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()

	if entitlement == vacancy.EntitlementCredit {
		if _, err := tx.ExecContext(ctx, `UPDATE users SET credits = GREATEST(credits - 1, 0), updated_at = $1 WHERE id = $2`, now, v.UserID); err != nil {
			return nil, "", common.NewError(common.CodeInternal, "failed to deduct credit", err)
		}
		delta := -1
		if err := insertTransaction(ctx, tx, billing.Transaction{
			UserID:      v.UserID,
			Type:        billing.TypeVacancyCredit,
			Amount:      "0",
			Credits:     &delta,
			Description: "Vacature credit gebruikt voor advertentie",
			Status:      billing.StatusCompleted,
		}); err != nil {
			return nil, "", err
		}
	}

	v.ID = common.NewUUID()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = vacancy.StatusActive
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO vacancies (id, user_id, organisation_name, title, description, requirements, location, contract_type, hourly_rate, education_level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::numeric, NULLIF($10, ''), $11, $12, $13)`,
		v.ID, v.UserID, v.OrganisationName, v.Title, v.Description, pq.Array(v.Requirements), v.Location, v.ContractType, v.HourlyRate, v.EducationLevel, v.Status, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to create vacancy", err)
	}

	if entitlement == vacancy.EntitlementFree {
		if err := insertTransaction(ctx, tx, billing.Transaction{
			UserID:      v.UserID,
			Type:        billing.TypeVacancyFree,
			Amount:      "0",
			Description: "Eerste vacature gratis geplaatst",
			Status:      billing.StatusCompleted,
		}); err != nil {
			return nil, "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to commit vacancy creation", err)
	}
	return &v, entitlement, nil
}

func (r *VacancyRepository) GetByID(ctx context.Context, id common.UUID) (*vacancy.Vacancy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id)
	return scanVacancy(row)
}

func (r *VacancyRepository) ListActive(ctx context.Context) ([]vacancy.Vacancy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE status = $1 ORDER BY created_at DESC`, vacancy.StatusActive)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list vacancies", err)
	}
	defer rows.Close()
	return collectVacancies(rows)
}

func (r *VacancyRepository) ListByOwner(ctx context.Context, userID common.UUID) ([]vacancy.Vacancy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list own vacancies", err)
	}
	defer rows.Close()
	return collectVacancies(rows)
}

func (r *VacancyRepository) CountByOwner(ctx context.Context, userID common.UUID) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count vacancies", err)
	}
	return count, nil
}

func collectVacancies(rows *sql.Rows) ([]vacancy.Vacancy, error) {
	var items []vacancy.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	return items, nil
}

func scanVacancy(row rowScanner) (*vacancy.Vacancy, error) {
	var v vacancy.Vacancy
	var hourlyRate, educationLevel sql.NullString
	err := row.Scan(&v.ID, &v.UserID, &v.OrganisationName, &v.Title, &v.Description, pq.Array(&v.Requirements), &v.Location, &v.ContractType, &hourlyRate, &educationLevel, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "vacancy not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load vacancy", err)
	}
	v.HourlyRate = hourlyRate.String
	v.EducationLevel = educationLevel.String
	return &v, nil
}
