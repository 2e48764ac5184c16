package post_repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "blog-post-service/internal/domain/models"
	post_repository "blog-post-service/internal/domain/ports/output/post"
	"blog-post-service/internal/infrastructure/logger"
	"blog-post-service/internal/infrastructure/outbound/repository/post/memory"
)

func strPtr(s string) *string { return &s }

func seedPosts(n int) []*model.Post {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, &model.Post{
			Author:  model.Author{FirstName: "First", LastName: "Last"},
			Title:   "Title",
			Content: "Content",
			Created: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return posts
}

// runRepositoryContract checks the behaviour every storage backend shares.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) post_repository.Repository) {
	ctx := context.Background()

	t.Run("InsertMany and Count", func(t *testing.T) {
		repo := newRepo(t)

		inserted, err := repo.InsertMany(ctx, seedPosts(10))
		require.NoError(t, err)
		require.Len(t, inserted, 10)
		for _, p := range inserted {
			assert.NotEmpty(t, p.ID)
		}

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), count)
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.InsertMany(ctx, seedPosts(3))
		require.NoError(t, err)

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.True(t, posts[0].Created.After(posts[1].Created))
		assert.True(t, posts[1].Created.After(posts[2].Created))
	})

	t.Run("List on empty store", func(t *testing.T) {
		repo := newRepo(t)

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("Create then GetByID", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, &model.Post{
			Author:  model.Author{FirstName: "Ada", LastName: "Lovelace"},
			Title:   "Notes",
			Content: "Engine",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.Created.IsZero())

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Notes", got.Title)
		assert.Equal(t, "Engine", got.Content)
		assert.Equal(t, "Ada Lovelace", got.Author.FullName())
	})

	t.Run("GetByID unknown and malformed ids", func(t *testing.T) {
		repo := newRepo(t)

		for _, id := range []string{"not-an-id", "5f1d7f1b2a3b4c5d6e7f8091", "6f1c2c1e-9b1a-4c55-9c1e-1d2b3a4c5d6e"} {
			got, err := repo.GetByID(ctx, id)
			assert.ErrorIs(t, err, custom_errors.ErrPostNotFound, id)
			assert.Nil(t, got)
		}
	})

	t.Run("FindOne", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindOne(ctx)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

		_, err = repo.InsertMany(ctx, seedPosts(2))
		require.NoError(t, err)

		one, err := repo.FindOne(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, one.ID)
	})

	t.Run("Update sent fields only", func(t *testing.T) {
		repo := newRepo(t)
		inserted, err := repo.InsertMany(ctx, seedPosts(1))
		require.NoError(t, err)
		id := inserted[0].ID

		updated, err := repo.Update(ctx, id, &model.UpdatePostDTO{
			Title:  strPtr("New title"),
			Author: &model.UpdateAuthorDTO{FirstName: strPtr("Grace"), LastName: strPtr("Hopper")},
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "Grace", got.Author.FirstName)
		assert.Equal(t, "Hopper", got.Author.LastName)
		assert.Equal(t, "Content", got.Content)
		assert.True(t, inserted[0].Created.Equal(got.Created))
	})

	t.Run("Update errors", func(t *testing.T) {
		repo := newRepo(t)
		inserted, err := repo.InsertMany(ctx, seedPosts(1))
		require.NoError(t, err)

		_, err = repo.Update(ctx, inserted[0].ID, &model.UpdatePostDTO{})
		assert.ErrorIs(t, err, custom_errors.ErrNoUpdateRows)

		_, err = repo.Update(ctx, "missing", &model.UpdatePostDTO{Title: strPtr("x")})
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		inserted, err := repo.InsertMany(ctx, seedPosts(2))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, inserted[0].ID))

		_, err = repo.GetByID(ctx, inserted[0].ID)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

		err = repo.Delete(ctx, inserted[0].ID)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Upper-case ids resolve to the stored post", func(t *testing.T) {
		repo := newRepo(t)
		inserted, err := repo.InsertMany(ctx, seedPosts(1))
		require.NoError(t, err)
		id := inserted[0].ID
		upper := strings.ToUpper(id)

		assert.Equal(t, id, repo.CanonicalID(upper))
		assert.Equal(t, "not-an-id", repo.CanonicalID("not-an-id"))

		got, err := repo.GetByID(ctx, upper)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)

		updated, err := repo.Update(ctx, upper, &model.UpdatePostDTO{Title: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, id, updated.ID)

		require.NoError(t, repo.Delete(ctx, upper))
		_, err = repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
	})

	t.Run("Drop and Ping", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.InsertMany(ctx, seedPosts(4))
		require.NoError(t, err)

		require.NoError(t, repo.Drop(ctx))
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		assert.NoError(t, repo.Ping(ctx))
	})
}

func TestMemoryPostRepository(t *testing.T) {
	log := logger.New("test")
	runRepositoryContract(t, func(t *testing.T) post_repository.Repository {
		return memory.NewPostRepository(log)
	})
}

func TestMemoryPostRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewPostRepository(logger.New("test"))
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Post{Title: "Original", Content: "c"})
	require.NoError(t, err)

	created.Title = "Mutated"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
}
