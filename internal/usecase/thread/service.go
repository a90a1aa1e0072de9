package thread

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
	MsgTitleRequired   = "title is required"
	MsgContentRequired = "content is required"
)

// Service encapsulates thread use cases.
type Service struct {
	threads    forum.ThreadRepository
	comments   forum.CommentRepository
	users      auth.UserRepository
	categories forum.CategoryRepository
	nowFunc    func() time.Time
}

// NewService constructs a thread service.
func NewService(threads forum.ThreadRepository, comments forum.CommentRepository, users auth.UserRepository, categories forum.CategoryRepository) *Service {
	return &Service{
		threads:    threads,
		comments:   comments,
		users:      users,
		categories: categories,
		nowFunc:    time.Now,
	}
}

// Input contains the thread payload. On update, blank ids keep the current
// author and category.
type Input struct {
	Title      string
	Content    string
	UserID     string
	CategoryID string
}

func (in Input) validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(in.Title) == "" {
		errs.Add("title", MsgTitleRequired)
	}
	if strings.TrimSpace(in.Content) == "" {
		errs.Add("content", MsgContentRequired)
	}
	return errs.Err()
}

// Create stores a new thread. The author defaults to actorID when the input
// names none.
func (s *Service) Create(ctx context.Context, actorID string, input Input) (*forum.ThreadDetails, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = actorID
	}

	now := s.nowFunc().UTC()
	thread := &forum.Thread{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(input.Title),
		Content:    strings.TrimSpace(input.Content),
		UserID:     userID,
		CategoryID: strings.TrimSpace(input.CategoryID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, oops.With("operation", "create_thread").Wrap(err)
	}

	details, err := s.enrich(ctx, []*forum.Thread{thread})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// List returns every thread joined with author, category and comment count.
func (s *Service) List(ctx context.Context) ([]*forum.ThreadDetails, error) {
	threads, err := s.threads.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list_threads").Wrap(err)
	}
	return s.enrich(ctx, threads)
}

// Get fetches a single enriched thread.
func (s *Service) Get(ctx context.Context, id string) (*forum.ThreadDetails, error) {
	thread, err := s.threads.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "get_thread")
	}
	details, err := s.enrich(ctx, []*forum.Thread{thread})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// Update replaces title and content, and the author or category when given.
func (s *Service) Update(ctx context.Context, id string, input Input) (*forum.ThreadDetails, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	thread, err := s.threads.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "update_thread")
	}

	thread.Title = strings.TrimSpace(input.Title)
	thread.Content = strings.TrimSpace(input.Content)
	if userID := strings.TrimSpace(input.UserID); userID != "" {
		thread.UserID = userID
	}
	if categoryID := strings.TrimSpace(input.CategoryID); categoryID != "" {
		thread.CategoryID = categoryID
	}
	thread.UpdatedAt = s.nowFunc().UTC()

	if err := s.threads.Update(ctx, thread); err != nil {
		return nil, notFoundOrInternal(err, "update_thread")
	}

	details, err := s.enrich(ctx, []*forum.Thread{thread})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// Delete removes a thread and then its comments.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.threads.Delete(ctx, id); err != nil {
		return notFoundOrInternal(err, "delete_thread")
	}
	if _, err := s.comments.DeleteByThreads(ctx, []string{id}); err != nil {
		return oops.With("operation", "delete_thread", "step", "delete_comments").Wrap(err)
	}
	return nil
}

// DeleteMany removes the listed threads and then their comments.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	n, err := s.threads.DeleteMany(ctx, ids)
	if err != nil {
		return 0, oops.With("operation", "delete_threads").Wrap(err)
	}
	if _, err := s.comments.DeleteByThreads(ctx, ids); err != nil {
		return n, oops.With("operation", "delete_threads", "step", "delete_comments").Wrap(err)
	}
	return n, nil
}

func (s *Service) enrich(ctx context.Context, threads []*forum.Thread) ([]*forum.ThreadDetails, error) {
	out := make([]*forum.ThreadDetails, 0, len(threads))
	if len(threads) == 0 {
		return out, nil
	}

	userIDs := make([]string, 0, len(threads))
	categoryIDs := make([]string, 0, len(threads))
	threadIDs := make([]string, 0, len(threads))
	for _, t := range threads {
		userIDs = append(userIDs, t.UserID)
		categoryIDs = append(categoryIDs, t.CategoryID)
		threadIDs = append(threadIDs, t.ID)
	}

	users, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, oops.With("operation", "enrich_threads", "step", "users").Wrap(err)
	}
	userByID := make(map[string]*auth.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Sanitize()
	}

	categories, err := s.categories.ListByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, oops.With("operation", "enrich_threads", "step", "categories").Wrap(err)
	}
	categoryByID := make(map[string]*forum.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	counts, err := s.comments.CountByThreads(ctx, threadIDs)
	if err != nil {
		return nil, oops.With("operation", "enrich_threads", "step", "comment_counts").Wrap(err)
	}

	for _, t := range threads {
		out = append(out, &forum.ThreadDetails{
			Thread:       t,
			User:         userByID[t.UserID],
			Category:     categoryByID[t.CategoryID],
			CommentCount: counts[t.ID],
		})
	}
	return out, nil
}

func notFoundOrInternal(err error, operation string) error {
	if errors.Is(err, forum.ErrThreadNotFound) {
		return err
	}
	return oops.With("operation", operation).Wrap(err)
}
