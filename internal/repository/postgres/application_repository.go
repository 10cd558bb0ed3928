package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, applicant_id, target_type, target_id, message, status, responded_at, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) (*application.Application, error) {
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = application.StatusPending
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, applicant_id, target_type, target_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ApplicantID, a.TargetType, a.TargetID, a.Message, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`, applicantID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListForTarget(ctx context.Context, targetType string, targetID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE target_type = $1 AND target_id = $2 ORDER BY created_at DESC`, targetType, targetID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListForOwner(ctx context.Context, ownerID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.applicant_id, a.target_type, a.target_id, a.message, a.status, a.responded_at, a.created_at, a.updated_at
		FROM applications a
		JOIN vacancies v ON v.id = a.target_id
		WHERE a.target_type = $1 AND v.user_id = $2
		ORDER BY a.created_at DESC`, application.TargetVacancy, ownerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list vacancy applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) MarkResponded(ctx context.Context, ownerID, applicantID common.UUID, at time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE applications a SET responded_at = $1, updated_at = $1
		FROM vacancies v
		WHERE v.id = a.target_id
		  AND a.target_type = $2
		  AND a.applicant_id = $3
		  AND v.user_id = $4
		  AND a.responded_at IS NULL`,
		at.UTC(), application.TargetVacancy, applicantID, ownerID)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to mark applications responded", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func collectApplications(rows *sql.Rows) ([]application.Application, error) {
	var items []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, nil
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var a application.Application
	var respondedAt sql.NullTime
	err := row.Scan(&a.ID, &a.ApplicantID, &a.TargetType, &a.TargetID, &a.Message, &a.Status, &respondedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	if respondedAt.Valid {
		responded := respondedAt.Time
		a.RespondedAt = &responded
	}
	return &a, nil
}
