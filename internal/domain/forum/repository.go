package forum

import "context"

// CategoryRepository defines persistence behaviours for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ThreadRepository defines persistence behaviours for threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	GetByID(ctx context.Context, id string) (*Thread, error)
	List(ctx context.Context) ([]*Thread, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Thread, error)
	ListIDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error)
	Update(ctx context.Context, thread *Thread) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	DeleteByCategories(ctx context.Context, categoryIDs []string) (int64, error)
}

// CommentRepository defines persistence behaviours for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	List(ctx context.Context) ([]*Comment, error)
	ListByThread(ctx context.Context, threadID string) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	DeleteByThreads(ctx context.Context, threadIDs []string) (int64, error)
	// CountByThreads returns the number of comments per thread id. Threads
	// without comments are absent from the result.
	CountByThreads(ctx context.Context, threadIDs []string) (map[string]int, error)
}
