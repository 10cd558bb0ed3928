package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, credits,
	stripe_customer_id, stripe_subscription_id, subscription_status,
	is_online, show_online_status, last_seen, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, email, password_hash, first_name, last_name, role, credits, is_online, show_online_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)`,
		u.ID, strings.ToLower(u.Email), u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.Credits, u.IsOnline, u.ShowOnlineStatus, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, common.NewError(common.CodeConflict, "email already registered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id common.UUID, role user.Role) (*user.User, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`, string(role), time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update role", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateCredits(ctx context.Context, id common.UUID, credits int) (*user.User, error) {
	if credits < 0 {
		credits = 0
	}
	_, err := r.db.ExecContext(ctx, `UPDATE users SET credits = $1, updated_at = $2 WHERE id = $3`, credits, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update credits", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateStripeInfo(ctx context.Context, id common.UUID, customerID, subscriptionID, subscriptionStatus string) (*user.User, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET stripe_customer_id = $1, stripe_subscription_id = NULLIF($2, ''), subscription_status = NULLIF($3, ''), updated_at = $4 WHERE id = $5`,
		customerID, subscriptionID, subscriptionStatus, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update stripe info", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateOnlineStatus(ctx context.Context, id common.UUID, isOnline bool) (*user.User, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_online = $1, last_seen = $2, updated_at = $2 WHERE id = $3`, isOnline, now, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update online status", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateOnlineStatusPreference(ctx context.Context, id common.UUID, show bool) (*user.User, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET show_online_status = $1, updated_at = $2 WHERE id = $3`, show, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update online status preference", err)
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var firstName, lastName, role, customerID, subscriptionID, subscriptionStatus sql.NullString
	var lastSeen sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &role, &u.Credits,
		&customerID, &subscriptionID, &subscriptionStatus,
		&u.IsOnline, &u.ShowOnlineStatus, &lastSeen, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Role = user.Role(role.String)
	u.StripeCustomerID = customerID.String
	u.StripeSubscriptionID = subscriptionID.String
	u.SubscriptionStatus = subscriptionStatus.String
	if lastSeen.Valid {
		seen := lastSeen.Time
		u.LastSeen = &seen
	}
	return &u, nil
}
