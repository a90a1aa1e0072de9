package memory

import (
	"context"

	"forum/backend/internal/domain/forum"
)

// CategoryRepository stores categories in memory.
type CategoryRepository struct {
	table *table[forum.Category]
}

var _ forum.CategoryRepository = (*CategoryRepository)(nil)

// Create inserts a new category.
func (r *CategoryRepository) Create(_ context.Context, category *forum.Category) error {
	r.table.insert(category.ID, *category)
	return nil
}

// GetByID returns the category with id.
func (r *CategoryRepository) GetByID(_ context.Context, id string) (*forum.Category, error) {
	category, ok := r.table.get(id)
	if !ok {
		return nil, forum.ErrCategoryNotFound
	}
	return &category, nil
}

// List returns every category in insertion order.
func (r *CategoryRepository) List(_ context.Context) ([]*forum.Category, error) {
	return pointers(r.table.filter(nil)), nil
}

// ListByIDs returns the categories whose id is in ids. Unknown ids are skipped.
func (r *CategoryRepository) ListByIDs(_ context.Context, ids []string) ([]*forum.Category, error) {
	set := idSet(ids)
	return pointers(r.table.filter(func(c forum.Category) bool { return contains(set, c.ID) })), nil
}

// Update replaces the stored category.
func (r *CategoryRepository) Update(_ context.Context, category *forum.Category) error {
	current, ok := r.table.get(category.ID)
	if !ok {
		return forum.ErrCategoryNotFound
	}
	updated := *category
	updated.CreatedAt = current.CreatedAt
	r.table.replace(category.ID, updated)
	return nil
}

// Delete removes the category with id.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	if r.table.deleteWhere(func(rowID string, _ forum.Category) bool { return rowID == id }) == 0 {
		return forum.ErrCategoryNotFound
	}
	return nil
}

// DeleteMany removes the listed categories and reports how many existed.
func (r *CategoryRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	set := idSet(ids)
	return r.table.deleteWhere(func(id string, _ forum.Category) bool { return contains(set, id) }), nil
}
