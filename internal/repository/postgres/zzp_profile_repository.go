package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/profile"
)

type ZzpProfileRepository struct {
	db *sql.DB
}

func NewZzpProfileRepository(db *sql.DB) *ZzpProfileRepository {
	return &ZzpProfileRepository{db: db}
}

const profileColumns = `id, user_id, title, bio, expertise, location, availability, hourly_rate, experience, created_at, updated_at`

func (r *ZzpProfileRepository) Create(ctx context.Context, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO zzp_profiles (id, user_id, title, bio, expertise, location, availability, hourly_rate, experience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)`,
		p.ID, p.UserID, p.Title, p.Bio, pq.Array(p.Expertise), p.Location, p.Availability, p.HourlyRate, p.Experience, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create profile", err)
	}
	return &p, nil
}

func (r *ZzpProfileRepository) Update(ctx context.Context, userID common.UUID, p profile.ZzpProfile) (*profile.ZzpProfile, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE zzp_profiles SET title = $1, bio = $2, expertise = $3, location = $4, availability = $5, hourly_rate = NULLIF($6, ''), experience = NULLIF($7, ''), updated_at = $8
		WHERE user_id = $9`,
		p.Title, p.Bio, pq.Array(p.Expertise), p.Location, p.Availability, p.HourlyRate, p.Experience, time.Now().UTC(), userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update profile", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "profile not found", sql.ErrNoRows)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *ZzpProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.ZzpProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM zzp_profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (r *ZzpProfileRepository) GetByID(ctx context.Context, id common.UUID) (*profile.ZzpProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM zzp_profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *ZzpProfileRepository) ListAll(ctx context.Context) ([]profile.ZzpProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM zzp_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list profiles", err)
	}
	defer rows.Close()
	var items []profile.ZzpProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, nil
}

func scanProfile(row rowScanner) (*profile.ZzpProfile, error) {
	var p profile.ZzpProfile
	var hourlyRate, experience sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Bio, pq.Array(&p.Expertise), &p.Location, &p.Availability, &hourlyRate, &experience, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load profile", err)
	}
	p.HourlyRate = hourlyRate.String
	p.Experience = experience.String
	return &p, nil
}
