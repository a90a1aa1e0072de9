package forum

import (
	"errors"
	"time"

	"forum/backend/internal/domain/auth"
)

var (
	// ErrCategoryNotFound indicates a category could not be located.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrThreadNotFound indicates a thread could not be located.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrCommentNotFound indicates a comment could not be located.
	ErrCommentNotFound = errors.New("comment not found")
)

// Category groups threads by topic.
type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Thread is a discussion opened by a user inside a category.
type Thread struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment is a reply posted to a thread.
type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	ThreadID  string    `json:"threadId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ThreadDetails is a thread joined with its author, category and reply count.
// User and Category are nil when the referenced record no longer exists.
type ThreadDetails struct {
	*Thread
	User         *auth.User `json:"user"`
	Category     *Category  `json:"category"`
	CommentCount int        `json:"commentCount"`
}

// CommentDetails is a comment joined with its author and, for flat listings,
// its thread.
type CommentDetails struct {
	*Comment
	User   *auth.User `json:"user"`
	Thread *Thread    `json:"thread,omitempty"`
}
