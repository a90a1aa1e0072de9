package postgres

import (
	"context"
	"errors"

	"forum/backend/internal/domain/forum"

	"github.com/jackc/pgx/v5"
)

const threadColumns = `id, title, content, user_id, category_id, created_at, updated_at`

// ThreadRepository persists threads in PostgreSQL.
type ThreadRepository struct {
	pool querier
}

var _ forum.ThreadRepository = (*ThreadRepository)(nil)

// NewThreadRepository constructs a repository.
func NewThreadRepository(pool querier) *ThreadRepository {
	return &ThreadRepository{pool: pool}
}

// Create inserts a new thread.
func (r *ThreadRepository) Create(ctx context.Context, thread *forum.Thread) error {
	const query = `
INSERT INTO threads (id, title, content, user_id, category_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pool.Exec(ctx, query,
		thread.ID,
		thread.Title,
		thread.Content,
		thread.UserID,
		thread.CategoryID,
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	return err
}

// GetByID fetches a thread by id.
func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*forum.Thread, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id)
	thread, err := scanThread(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, forum.ErrThreadNotFound
		}
		return nil, err
	}
	return thread, nil
}

// List returns every thread, oldest first.
func (r *ThreadRepository) List(ctx context.Context) ([]*forum.Thread, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+threadColumns+` FROM threads ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanThread)
}

// ListByIDs returns the threads whose id is in ids.
func (r *ThreadRepository) ListByIDs(ctx context.Context, ids []string) ([]*forum.Thread, error) {
	if len(ids) == 0 {
		return []*forum.Thread{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanThread)
}

// ListIDsByCategories returns the ids of threads filed under any of categoryIDs.
func (r *ThreadRepository) ListIDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return []string{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM threads WHERE category_id = ANY($1)`, categoryIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Update modifies an existing thread.
func (r *ThreadRepository) Update(ctx context.Context, thread *forum.Thread) error {
	const query = `
UPDATE threads
SET title = $2, content = $3, user_id = $4, category_id = $5, updated_at = $6
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		thread.ID,
		thread.Title,
		thread.Content,
		thread.UserID,
		thread.CategoryID,
		thread.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrThreadNotFound
	}
	return nil
}

// Delete removes a thread by id.
func (r *ThreadRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrThreadNotFound
	}
	return nil
}

// DeleteMany removes the threads in ids.
func (r *ThreadRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM threads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// DeleteByCategories removes every thread filed under any of categoryIDs.
func (r *ThreadRepository) DeleteByCategories(ctx context.Context, categoryIDs []string) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM threads WHERE category_id = ANY($1)`, categoryIDs)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanThread(row pgx.Row) (*forum.Thread, error) {
	var t forum.Thread
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Content,
		&t.UserID,
		&t.CategoryID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
