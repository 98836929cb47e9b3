package repo

import (
	"context"
	"time"

	dom "Tasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides persistence for the local mirror of identity provider users.
type UserRepo interface {
	Create(ctx context.Context, id, email string) (dom.User, error)
	Upsert(ctx context.Context, id, email string) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Delete(ctx context.Context, id string) error
	SetSubscription(ctx context.Context, id string, subscribed bool, ends *time.Time) (dom.User, error)
	ExpireSubscription(ctx context.Context, id string, now time.Time) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, email, is_subscribed, subscription_ends, created_at, updated_at`

func scanUser(row scanner) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Email, &u.IsSubscribed, &u.SubscriptionEnds, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new unsubscribed user. A duplicate id or email surfaces as
// a unique violation.
func (r *PGUserRepo) Create(ctx context.Context, id, email string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		RETURNING `+userColumns, id, email))
}

// Upsert creates the user or refreshes its email, keeping subscription state.
func (r *PGUserRepo) Upsert(ctx context.Context, id, email string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING `+userColumns, id, email))
}

func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail matches the email case-insensitively.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// Delete removes the user and, through ON DELETE CASCADE, its todos.
// Deleting a missing id yields pgx.ErrNoRows.
func (r *PGUserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGUserRepo) SetSubscription(ctx context.Context, id string, subscribed bool, ends *time.Time) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET is_subscribed = $2, subscription_ends = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, subscribed, ends))
}

// ExpireSubscription clears the subscription only while its window is still
// before now, so a concurrent re-activation is never undone.
func (r *PGUserRepo) ExpireSubscription(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET is_subscribed = FALSE, subscription_ends = NULL, updated_at = NOW()
		WHERE id = $1 AND subscription_ends IS NOT NULL AND subscription_ends < $2`, id, now)
	return err
}
