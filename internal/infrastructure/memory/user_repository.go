package memory

import (
	"context"
	"sync"
	"time"

	domain "forum/backend/internal/domain/auth"
)

// UserRepository stores users in memory. Emails are unique and compared
// case-sensitively.
type UserRepository struct {
	// writes serialises email uniqueness checks with the write that follows.
	writes sync.Mutex
	table  *table[domain.User]
}

var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.writes.Lock()
	defer r.writes.Unlock()

	if r.emailTaken(user.Email, "") {
		return domain.ErrEmailExists
	}
	r.table.insert(user.ID, *user)
	return nil
}

// GetByEmail returns the user registered with email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	rows := r.table.filter(func(u domain.User) bool { return u.Email == email })
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &rows[0], nil
}

// GetByID returns the user with id.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.table.get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// List returns every user in insertion order.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	return pointers(r.table.filter(nil)), nil
}

// ListByIDs returns the users whose id is in ids. Unknown ids are skipped.
func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	set := idSet(ids)
	return pointers(r.table.filter(func(u domain.User) bool { return contains(set, u.ID) })), nil
}

// Update replaces profile fields. The password hash is only changed through
// UpdatePassword.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.writes.Lock()
	defer r.writes.Unlock()

	current, ok := r.table.get(user.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrEmailExists
	}

	updated := *user
	updated.CreatedAt = current.CreatedAt
	updated.PasswordHash = current.PasswordHash
	r.table.replace(user.ID, updated)
	return nil
}

// UpdatePassword replaces the stored hash of user id.
func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string, updatedAt time.Time) error {
	r.writes.Lock()
	defer r.writes.Unlock()

	user, ok := r.table.get(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = updatedAt
	r.table.replace(id, user)
	return nil
}

// Delete removes the user with id.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	removed := r.table.deleteWhere(func(rowID string, _ domain.User) bool { return rowID == id })
	if removed == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteMany removes the listed users and reports how many existed.
func (r *UserRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	set := idSet(ids)
	return r.table.deleteWhere(func(id string, _ domain.User) bool { return contains(set, id) }), nil
}

// emailTaken reports whether another user than exceptID owns email.
func (r *UserRepository) emailTaken(email, exceptID string) bool {
	rows := r.table.filter(func(u domain.User) bool { return u.Email == email && u.ID != exceptID })
	return len(rows) > 0
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
