package category_test

import (
	"context"
	"testing"

	"forum/backend/internal/domain/forum"
	"forum/backend/internal/domain/validation"
	"forum/backend/internal/infrastructure/memory"
	"forum/backend/internal/usecase/category"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*category.Service, *memory.Store) {
	store := memory.NewStore()
	return category.NewService(store.Categories(), store.Threads(), store.Comments()), store
}

func seed(t *testing.T, store *memory.Store, categoryID string, threads, commentsPerThread int) {
	t.Helper()
	ctx := context.Background()
	for i := range threads {
		threadID := categoryID + "-t" + string(rune('a'+i))
		require.NoError(t, store.Threads().Create(ctx, &forum.Thread{ID: threadID, CategoryID: categoryID}))
		for j := range commentsPerThread {
			require.NoError(t, store.Comments().Create(ctx, &forum.Comment{
				ID:       threadID + "-c" + string(rune('a'+j)),
				ThreadID: threadID,
			}))
		}
	}
}

func counts(t *testing.T, store *memory.Store) (threads, comments int) {
	t.Helper()
	ctx := context.Background()
	ts, err := store.Threads().List(ctx)
	require.NoError(t, err)
	cs, err := store.Comments().List(ctx)
	require.NoError(t, err)
	return len(ts), len(cs)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), category.Input{Name: "  "})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, validation.Errors{
		"name":        category.MsgNameRequired,
		"description": category.MsgDescriptionRequired,
	}, verrs)
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, category.Input{Name: "Go", Description: "Gophers"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := svc.Update(ctx, created.ID, category.Input{Name: "Golang", Description: "Gophers!"})
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gophers!", got.Description)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, forum.ErrCategoryNotFound)
	_, err = svc.Update(ctx, "missing", category.Input{Name: "a", Description: "b"})
	require.ErrorIs(t, err, forum.ErrCategoryNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	doomed, err := svc.Create(ctx, category.Input{Name: "Go", Description: "d"})
	require.NoError(t, err)
	kept, err := svc.Create(ctx, category.Input{Name: "Rust", Description: "d"})
	require.NoError(t, err)
	seed(t, store, doomed.ID, 3, 2)
	seed(t, store, kept.ID, 1, 4)

	threads, comments := counts(t, store)
	require.Equal(t, 4, threads)
	require.Equal(t, 10, comments)

	require.NoError(t, svc.Delete(ctx, doomed.ID))

	threads, comments = counts(t, store)
	assert.Equal(t, 1, threads)
	assert.Equal(t, 4, comments)

	require.ErrorIs(t, svc.Delete(ctx, doomed.ID), forum.ErrCategoryNotFound)
}

func TestDeleteManyCascades(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	var ids []string
	for _, name := range []string{"a", "b"} {
		c, err := svc.Create(ctx, category.Input{Name: name, Description: "d"})
		require.NoError(t, err)
		seed(t, store, c.ID, 2, 1)
		ids = append(ids, c.ID)
	}

	n, err := svc.DeleteMany(ctx, append(ids, "missing"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	threads, comments := counts(t, store)
	assert.Zero(t, threads)
	assert.Zero(t, comments)

	_, err = svc.DeleteMany(ctx, ids)
	require.ErrorIs(t, err, forum.ErrCategoryNotFound)
}
