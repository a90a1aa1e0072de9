package postgres

import (
	"context"
	"errors"

	"forum/backend/internal/domain/forum"

	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, content, thread_id, user_id, created_at, updated_at`

// CommentRepository persists comments in PostgreSQL.
type CommentRepository struct {
	pool querier
}

var _ forum.CommentRepository = (*CommentRepository)(nil)

// NewCommentRepository constructs a repository.
func NewCommentRepository(pool querier) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *forum.Comment) error {
	const query = `
INSERT INTO comments (id, content, thread_id, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.Content,
		comment.ThreadID,
		comment.UserID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	return err
}

// GetByID fetches a comment by id.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*forum.Comment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, forum.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// List returns every comment, oldest first.
func (r *CommentRepository) List(ctx context.Context) ([]*forum.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanComment)
}

// ListByThread returns the comments of one thread, oldest first.
func (r *CommentRepository) ListByThread(ctx context.Context, threadID string) ([]*forum.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE thread_id = $1 ORDER BY created_at, id`, threadID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanComment)
}

// Update modifies the content of a comment.
func (r *CommentRepository) Update(ctx context.Context, comment *forum.Comment) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`,
		comment.ID, comment.Content, comment.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment by id.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrCommentNotFound
	}
	return nil
}

// DeleteMany removes the comments in ids.
func (r *CommentRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	return r.deleteAny(ctx, `DELETE FROM comments WHERE id = ANY($1)`, ids)
}

// DeleteByThreads removes every comment posted to any of threadIDs.
func (r *CommentRepository) DeleteByThreads(ctx context.Context, threadIDs []string) (int64, error) {
	return r.deleteAny(ctx, `DELETE FROM comments WHERE thread_id = ANY($1)`, threadIDs)
}

// CountByThreads groups comment counts by thread id.
func (r *CommentRepository) CountByThreads(ctx context.Context, threadIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	if len(threadIDs) == 0 {
		return counts, nil
	}

	const query = `
SELECT thread_id, COUNT(*)
FROM comments
WHERE thread_id = ANY($1)
GROUP BY thread_id
`
	rows, err := r.pool.Query(ctx, query, threadIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			threadID string
			n        int64
		)
		if err := rows.Scan(&threadID, &n); err != nil {
			return nil, err
		}
		counts[threadID] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *CommentRepository) deleteAny(ctx context.Context, query string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanComment(row pgx.Row) (*forum.Comment, error) {
	var c forum.Comment
	err := row.Scan(
		&c.ID,
		&c.Content,
		&c.ThreadID,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
