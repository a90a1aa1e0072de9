package memory

import (
	"context"

	"forum/backend/internal/domain/forum"
)

// ThreadRepository stores threads in memory.
type ThreadRepository struct {
	table *table[forum.Thread]
}

var _ forum.ThreadRepository = (*ThreadRepository)(nil)

// Create inserts a new thread.
func (r *ThreadRepository) Create(_ context.Context, thread *forum.Thread) error {
	r.table.insert(thread.ID, *thread)
	return nil
}

// GetByID returns the thread with id.
func (r *ThreadRepository) GetByID(_ context.Context, id string) (*forum.Thread, error) {
	thread, ok := r.table.get(id)
	if !ok {
		return nil, forum.ErrThreadNotFound
	}
	return &thread, nil
}

// List returns every thread in insertion order.
func (r *ThreadRepository) List(_ context.Context) ([]*forum.Thread, error) {
	return pointers(r.table.filter(nil)), nil
}

// ListByIDs returns the threads whose id is in ids. Unknown ids are skipped.
func (r *ThreadRepository) ListByIDs(_ context.Context, ids []string) ([]*forum.Thread, error) {
	set := idSet(ids)
	return pointers(r.table.filter(func(t forum.Thread) bool { return contains(set, t.ID) })), nil
}

// ListIDsByCategories returns the ids of threads in any of categoryIDs.
func (r *ThreadRepository) ListIDsByCategories(_ context.Context, categoryIDs []string) ([]string, error) {
	set := idSet(categoryIDs)
	rows := r.table.filter(func(t forum.Thread) bool { return contains(set, t.CategoryID) })
	ids := make([]string, len(rows))
	for i, t := range rows {
		ids[i] = t.ID
	}
	return ids, nil
}

// Update replaces the stored thread.
func (r *ThreadRepository) Update(_ context.Context, thread *forum.Thread) error {
	current, ok := r.table.get(thread.ID)
	if !ok {
		return forum.ErrThreadNotFound
	}
	updated := *thread
	updated.CreatedAt = current.CreatedAt
	r.table.replace(thread.ID, updated)
	return nil
}

// Delete removes the thread with id.
func (r *ThreadRepository) Delete(_ context.Context, id string) error {
	if r.table.deleteWhere(func(rowID string, _ forum.Thread) bool { return rowID == id }) == 0 {
		return forum.ErrThreadNotFound
	}
	return nil
}

// DeleteMany removes the listed threads and reports how many existed.
func (r *ThreadRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	set := idSet(ids)
	return r.table.deleteWhere(func(id string, _ forum.Thread) bool { return contains(set, id) }), nil
}

// DeleteByCategories removes every thread of categoryIDs.
func (r *ThreadRepository) DeleteByCategories(_ context.Context, categoryIDs []string) (int64, error) {
	set := idSet(categoryIDs)
	return r.table.deleteWhere(func(_ string, t forum.Thread) bool { return contains(set, t.CategoryID) }), nil
}
