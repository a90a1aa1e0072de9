package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"forum/backend/internal/domain/forum"
	"forum/backend/internal/domain/validation"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Field messages returned in a validation.Errors set.
const (
	MsgNameRequired        = "name is required"
	MsgDescriptionRequired = "description is required"
)

// Service encapsulates category use cases.
type Service struct {
	categories forum.CategoryRepository
	threads    forum.ThreadRepository
	comments   forum.CommentRepository
	nowFunc    func() time.Time
}

// NewService constructs a category service. Thread and comment repositories
// are needed to cascade deletes.
func NewService(categories forum.CategoryRepository, threads forum.ThreadRepository, comments forum.CommentRepository) *Service {
	return &Service{
		categories: categories,
		threads:    threads,
		comments:   comments,
		nowFunc:    time.Now,
	}
}

// Input contains the payload for creating or replacing a category.
type Input struct {
	Name        string
	Description string
}

func (in Input) validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", MsgNameRequired)
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.Add("description", MsgDescriptionRequired)
	}
	return errs.Err()
}

// Create stores a new category after validation.
func (s *Service) Create(ctx context.Context, input Input) (*forum.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	category := &forum.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, oops.With("operation", "create_category").Wrap(err)
	}
	return category, nil
}

// List retrieves all categories.
func (s *Service) List(ctx context.Context) ([]*forum.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list_categories").Wrap(err)
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *Service) Get(ctx context.Context, id string) (*forum.Category, error) {
	category, err := s.categories.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "get_category")
	}
	return category, nil
}

// Update replaces the name and description of a category.
func (s *Service) Update(ctx context.Context, id string, input Input) (*forum.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "update_category")
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Description = strings.TrimSpace(input.Description)
	category.UpdatedAt = s.nowFunc().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, notFoundOrInternal(err, "update_category")
	}
	return category, nil
}

// Delete removes a category, then its threads, then the comments of those
// threads. The steps are not atomic: a failure part way leaves orphans.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFoundOrInternal(err, "delete_category")
	}
	return s.cascade(ctx, []string{id})
}

// DeleteMany removes the listed categories with the same cascade as Delete.
// It returns forum.ErrCategoryNotFound when none of them existed.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	n, err := s.categories.DeleteMany(ctx, ids)
	if err != nil {
		return 0, oops.With("operation", "delete_categories").Wrap(err)
	}
	if n == 0 {
		return 0, forum.ErrCategoryNotFound
	}
	if err := s.cascade(ctx, ids); err != nil {
		return n, err
	}
	return n, nil
}

func (s *Service) cascade(ctx context.Context, categoryIDs []string) error {
	threadIDs, err := s.threads.ListIDsByCategories(ctx, categoryIDs)
	if err != nil {
		return oops.With("operation", "cascade_categories", "step", "list_threads").Wrap(err)
	}
	if _, err := s.threads.DeleteByCategories(ctx, categoryIDs); err != nil {
		return oops.With("operation", "cascade_categories", "step", "delete_threads").Wrap(err)
	}
	if len(threadIDs) == 0 {
		return nil
	}
	if _, err := s.comments.DeleteByThreads(ctx, threadIDs); err != nil {
		return oops.With("operation", "cascade_categories", "step", "delete_comments").Wrap(err)
	}
	return nil
}

func notFoundOrInternal(err error, operation string) error {
	if errors.Is(err, forum.ErrCategoryNotFound) {
		return err
	}
	return oops.With("operation", operation).Wrap(err)
}
