// Package memory provides map-backed repositories for local runs and tests.
package memory

import (
	"sync"

	"forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/forum"
)

// Store bundles the in-memory repositories.
type Store struct {
	users      *UserRepository
	categories *CategoryRepository
	threads    *ThreadRepository
	comments   *CommentRepository
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      &UserRepository{table: newTable[auth.User]()},
		categories: &CategoryRepository{table: newTable[forum.Category]()},
		threads:    &ThreadRepository{table: newTable[forum.Thread]()},
		comments:   &CommentRepository{table: newTable[forum.Comment]()},
	}
}

// Users returns the user repository.
func (s *Store) Users() *UserRepository { return s.users }

// Categories returns the category repository.
func (s *Store) Categories() *CategoryRepository { return s.categories }

// Threads returns the thread repository.
func (s *Store) Threads() *ThreadRepository { return s.threads }

// Comments returns the comment repository.
func (s *Store) Comments() *CommentRepository { return s.comments }

// table keeps rows in insertion order.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) insert(id string, row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) replace(id string, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

// filter returns matching rows in insertion order.
func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if row := t.rows[id]; match == nil || match(row) {
			out = append(out, row)
		}
	}
	return out
}

// deleteWhere removes matching rows and returns how many were removed.
func (t *table[T]) deleteWhere(match func(id string, row T) bool) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed int64
	kept := t.order[:0]
	for _, id := range t.order {
		if match(id, t.rows[id]) {
			delete(t.rows, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
	return removed
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func contains(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}
