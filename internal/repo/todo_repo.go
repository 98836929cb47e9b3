package repo

import (
	"context"
	"errors"
	"fmt"

	dom "Tasks/internal/domain"
	"Tasks/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoLimit disables the per-user todo cap in CreateWithinLimit.
const NoLimit = -1

// ErrLimitReached is returned by CreateWithinLimit when the owner already holds
// limit todos.
var ErrLimitReached = errors.New("todo limit reached")

type TodoRepo interface {
	CreateWithinLimit(ctx context.Context, t dom.Todo, limit int) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]dom.Todo, error)
	CountByUser(ctx context.Context, userID, search string) (int, error)
	SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error)
	Delete(ctx context.Context, id string) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id::text, user_id, title, completed, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateWithinLimit inserts t unless its owner already has limit or more todos.
// The owner's users row is locked for the duration of the transaction, so two
// concurrent creates for one user are counted one after the other. A missing
// owner yields pgx.ErrNoRows.
func (r *PGTodoRepo) CreateWithinLimit(ctx context.Context, t dom.Todo, limit int) (dom.Todo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner string
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, t.UserID).Scan(&owner); err != nil {
		return dom.Todo{}, err
	}

	if limit != NoLimit {
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, t.UserID).Scan(&n); err != nil {
			return dom.Todo{}, fmt.Errorf("count todos: %w", err)
		}
		if n >= limit {
			return dom.Todo{}, ErrLimitReached
		}
	}

	out, err := scanTodo(tx.QueryRow(ctx, `
		INSERT INTO todos (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING `+todoColumns, t.ID, t.UserID, t.Title))
	if err != nil {
		return dom.Todo{}, insertTodoError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Todo{}, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// insertTodoError reports a todo whose owner vanished as pgx.ErrNoRows, the
// same as a missing owner at lock time.
func insertTodoError(err error) error {
	if utils.IsPGForeignKeyViolation(err) {
		return pgx.ErrNoRows
	}
	return fmt.Errorf("insert todo: %w", err)
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	return scanTodo(r.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
}

// ListByUser returns the owner's todos whose title contains search, ignoring
// case, newest first.
func (r *PGTodoRepo) ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND title ILIKE $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, userID, likePattern(search), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Todo, 0, limit)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) CountByUser(ctx context.Context, userID, search string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = $1 AND title ILIKE $2`,
		userID, likePattern(search),
	).Scan(&n)
	return n, err
}

func (r *PGTodoRepo) SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	return scanTodo(r.db.QueryRow(ctx, `
		UPDATE todos SET completed = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+todoColumns, id, completed))
}

// Delete removes the todo. Deleting a missing id yields pgx.ErrNoRows.
func (r *PGTodoRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func likePattern(search string) string {
	return "%" + utils.EscapeLike(search) + "%"
}
