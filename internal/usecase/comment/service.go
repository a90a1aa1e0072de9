package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/forum"
	"forum/backend/internal/domain/validation"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Field messages returned in a validation.Errors set.
const (
	MsgContentRequired  = "content is required"
	MsgThreadIDRequired = "threadId is required"
)

// Service encapsulates comment use cases.
type Service struct {
	comments forum.CommentRepository
	threads  forum.ThreadRepository
	users    auth.UserRepository
	nowFunc  func() time.Time
}

// NewService constructs a comment service.
func NewService(comments forum.CommentRepository, threads forum.ThreadRepository, users auth.UserRepository) *Service {
	return &Service{
		comments: comments,
		threads:  threads,
		users:    users,
		nowFunc:  time.Now,
	}
}

// Input contains the comment payload. On update only Content is applied.
type Input struct {
	Content  string
	ThreadID string
	UserID   string
}

// Create posts a comment to an existing thread. The author defaults to
// actorID when the input names none.
func (s *Service) Create(ctx context.Context, actorID string, input Input) (*forum.CommentDetails, error) {
	errs := validation.Errors{}
	if strings.TrimSpace(input.Content) == "" {
		errs.Add("content", MsgContentRequired)
	}
	threadID := strings.TrimSpace(input.ThreadID)
	if threadID == "" {
		errs.Add("threadId", MsgThreadIDRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.threads.GetByID(ctx, threadID); err != nil {
		return nil, notFoundOrInternal(err, "create_comment")
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = actorID
	}

	now := s.nowFunc().UTC()
	comment := &forum.Comment{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(input.Content),
		ThreadID:  threadID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, oops.With("operation", "create_comment").Wrap(err)
	}
	return s.one(ctx, comment)
}

// List returns every comment joined with its author and thread.
func (s *Service) List(ctx context.Context) ([]*forum.CommentDetails, error) {
	comments, err := s.comments.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list_comments").Wrap(err)
	}
	return s.enrich(ctx, comments, true)
}

// ListByThread returns the comments of one thread joined with their authors.
func (s *Service) ListByThread(ctx context.Context, threadID string) ([]*forum.CommentDetails, error) {
	comments, err := s.comments.ListByThread(ctx, strings.TrimSpace(threadID))
	if err != nil {
		return nil, oops.With("operation", "list_thread_comments", "thread_id", threadID).Wrap(err)
	}
	return s.enrich(ctx, comments, false)
}

// Get fetches a single enriched comment.
func (s *Service) Get(ctx context.Context, id string) (*forum.CommentDetails, error) {
	comment, err := s.comments.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "get_comment")
	}
	return s.one(ctx, comment)
}

// Update replaces the content of a comment.
func (s *Service) Update(ctx context.Context, id string, input Input) (*forum.CommentDetails, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, validation.Errors{"content": MsgContentRequired}
	}

	comment, err := s.comments.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "update_comment")
	}
	comment.Content = strings.TrimSpace(input.Content)
	comment.UpdatedAt = s.nowFunc().UTC()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, notFoundOrInternal(err, "update_comment")
	}
	return s.one(ctx, comment)
}

// Delete removes a comment.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return notFoundOrInternal(err, "delete_comment")
	}
	return nil
}

// DeleteMany removes the listed comments.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	n, err := s.comments.DeleteMany(ctx, ids)
	if err != nil {
		return 0, oops.With("operation", "delete_comments").Wrap(err)
	}
	return n, nil
}

func (s *Service) one(ctx context.Context, comment *forum.Comment) (*forum.CommentDetails, error) {
	details, err := s.enrich(ctx, []*forum.Comment{comment}, true)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) enrich(ctx context.Context, comments []*forum.Comment, withThread bool) ([]*forum.CommentDetails, error) {
	out := make([]*forum.CommentDetails, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	userIDs := make([]string, 0, len(comments))
	threadIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
		threadIDs = append(threadIDs, c.ThreadID)
	}

	users, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, oops.With("operation", "enrich_comments", "step", "users").Wrap(err)
	}
	userByID := make(map[string]*auth.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Sanitize()
	}

	threadByID := map[string]*forum.Thread{}
	if withThread {
		threads, err := s.threads.ListByIDs(ctx, threadIDs)
		if err != nil {
			return nil, oops.With("operation", "enrich_comments", "step", "threads").Wrap(err)
		}
		for _, t := range threads {
			threadByID[t.ID] = t
		}
	}

	for _, c := range comments {
		out = append(out, &forum.CommentDetails{
			Comment: c,
			User:    userByID[c.UserID],
			Thread:  threadByID[c.ThreadID],
		})
	}
	return out, nil
}

func notFoundOrInternal(err error, operation string) error {
	if errors.Is(err, forum.ErrCommentNotFound) || errors.Is(err, forum.ErrThreadNotFound) {
		return err
	}
	return oops.With("operation", operation).Wrap(err)
}
