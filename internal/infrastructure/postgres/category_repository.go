package postgres

import (
	"context"
	"errors"

	"forum/backend/internal/domain/forum"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, description, created_at, updated_at`

// CategoryRepository persists categories in PostgreSQL.
type CategoryRepository struct {
	pool querier
}

var _ forum.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository constructs a repository.
func NewCategoryRepository(pool querier) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *forum.Category) error {
	const query = `
INSERT INTO categories (id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.CreatedAt,
		category.UpdatedAt,
	)
	return err
}

// GetByID fetches a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*forum.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, forum.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// List returns every category, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]*forum.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

// ListByIDs returns the categories whose id is in ids.
func (r *CategoryRepository) ListByIDs(ctx context.Context, ids []string) ([]*forum.Category, error) {
	if len(ids) == 0 {
		return []*forum.Category{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *forum.Category) error {
	const query = `
UPDATE categories
SET name = $2, description = $3, updated_at = $4
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category by id.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return forum.ErrCategoryNotFound
	}
	return nil
}

// DeleteMany removes the categories in ids.
func (r *CategoryRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanCategory(row pgx.Row) (*forum.Category, error) {
	var c forum.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
