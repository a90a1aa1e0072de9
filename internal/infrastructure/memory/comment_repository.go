package memory

import (
	"context"

	"forum/backend/internal/domain/forum"
)

// CommentRepository stores comments in memory.
type CommentRepository struct {
	table *table[forum.Comment]
}

var _ forum.CommentRepository = (*CommentRepository)(nil)

// Create inserts a new comment.
func (r *CommentRepository) Create(_ context.Context, comment *forum.Comment) error {
	r.table.insert(comment.ID, *comment)
	return nil
}

// GetByID returns the comment with id.
func (r *CommentRepository) GetByID(_ context.Context, id string) (*forum.Comment, error) {
	comment, ok := r.table.get(id)
	if !ok {
		return nil, forum.ErrCommentNotFound
	}
	return &comment, nil
}

// List returns every comment in insertion order.
func (r *CommentRepository) List(_ context.Context) ([]*forum.Comment, error) {
	return pointers(r.table.filter(nil)), nil
}

// ListByThread returns the comments posted to threadID.
func (r *CommentRepository) ListByThread(_ context.Context, threadID string) ([]*forum.Comment, error) {
	return pointers(r.table.filter(func(c forum.Comment) bool { return c.ThreadID == threadID })), nil
}

// Update replaces the stored comment.
func (r *CommentRepository) Update(_ context.Context, comment *forum.Comment) error {
	current, ok := r.table.get(comment.ID)
	if !ok {
		return forum.ErrCommentNotFound
	}
	updated := *comment
	updated.CreatedAt = current.CreatedAt
	r.table.replace(comment.ID, updated)
	return nil
}

// Delete removes the comment with id.
func (r *CommentRepository) Delete(_ context.Context, id string) error {
	if r.table.deleteWhere(func(rowID string, _ forum.Comment) bool { return rowID == id }) == 0 {
		return forum.ErrCommentNotFound
	}
	return nil
}

// DeleteMany removes the listed comments and reports how many existed.
func (r *CommentRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	set := idSet(ids)
	return r.table.deleteWhere(func(id string, _ forum.Comment) bool { return contains(set, id) }), nil
}

// DeleteByThreads removes every comment of threadIDs.
func (r *CommentRepository) DeleteByThreads(_ context.Context, threadIDs []string) (int64, error) {
	set := idSet(threadIDs)
	return r.table.deleteWhere(func(_ string, c forum.Comment) bool { return contains(set, c.ThreadID) }), nil
}

// CountByThreads returns the comment count per thread id.
func (r *CommentRepository) CountByThreads(_ context.Context, threadIDs []string) (map[string]int, error) {
	set := idSet(threadIDs)
	counts := map[string]int{}
	for _, c := range r.table.filter(func(c forum.Comment) bool { return contains(set, c.ThreadID) }) {
		counts[c.ThreadID]++
	}
	return counts, nil
}
