package post_service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	model "blog-post-service/internal/domain/models"
	"blog-post-service/internal/infrastructure/logger"
	"blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
	"blog-post-service/internal/infrastructure/outbound/repository/post/memory"
	cache_mock "blog-post-service/mocks/cache"
	post_service_mock "blog-post-service/mocks/post"
)

func newTestDecorator(t *testing.T) (*PostServiceCacheDecorator, *post_service_mock.Service, *cache_mock.PostCache) {
	svc := post_service_mock.NewService(t)
	svc.On("CanonicalID", mock.Anything).Return(strings.ToLower).Maybe()
	postCache := cache_mock.NewPostCache(t)
	d := NewPostServiceCacheDecorator(svc, postCache, logger.New("test"), prometheus.NewPrometheusMetricsProvider())
	return d.(*PostServiceCacheDecorator), svc, postCache
}

func TestPostServiceCacheDecorator_GetPostByID(t *testing.T) {
	ctx := context.Background()
	post := &model.Post{ID: "p1", Title: "T"}

	t.Run("Cache hit skips service", func(t *testing.T) {
		d, _, postCache := newTestDecorator(t)
		postCache.On("GetPost", mock.Anything, "p1").Return(post, nil)

		got, err := d.GetPostByID(ctx, "p1")
		assert.NoError(t, err)
		assert.Equal(t, post, got)
	})

	t.Run("Cache miss reads through and fills cache", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		postCache.On("GetPost", mock.Anything, "p1").Return(nil, custom_errors.ErrCacheMiss)
		svc.On("GetPostByID", mock.Anything, "p1").Return(post, nil)
		postCache.On("SetPost", mock.Anything, post).Return(nil)

		got, err := d.GetPostByID(ctx, "p1")
		assert.NoError(t, err)
		assert.Equal(t, post, got)
	})

	t.Run("Cache failure falls back to service", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		postCache.On("GetPost", mock.Anything, "p1").Return(nil, errors.New("redis down"))
		svc.On("GetPostByID", mock.Anything, "p1").Return(post, nil)
		postCache.On("SetPost", mock.Anything, post).Return(errors.New("redis down"))

		got, err := d.GetPostByID(ctx, "p1")
		assert.NoError(t, err)
		assert.Equal(t, post, got)
	})

	t.Run("Not found is not cached", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		postCache.On("GetPost", mock.Anything, "p1").Return(nil, custom_errors.ErrCacheMiss)
		svc.On("GetPostByID", mock.Anything, "p1").Return(nil, custom_errors.ErrPostNotFound)

		got, err := d.GetPostByID(ctx, "p1")
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		assert.Nil(t, got)
		postCache.AssertNotCalled(t, "SetPost", mock.Anything, mock.Anything)
	})
}

func TestPostServiceCacheDecorator_ListPosts(t *testing.T) {
	d, svc, _ := newTestDecorator(t)
	svc.On("ListPosts", mock.Anything).Return([]*model.Post{{ID: "p1"}}, nil)

	got, err := d.ListPosts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPostServiceCacheDecorator_CreatePost(t *testing.T) {
	input := &model.CreatePostDTO{Title: "T", Content: "C"}
	created := &model.Post{ID: "p1", Title: "T", Content: "C"}

	t.Run("Warms cache", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("CreatePost", mock.Anything, input).Return(created, nil)
		postCache.On("SetPost", mock.Anything, created).Return(nil)

		got, err := d.CreatePost(context.Background(), input)
		assert.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("Service error", func(t *testing.T) {
		d, svc, _ := newTestDecorator(t)
		svc.On("CreatePost", mock.Anything, input).Return(nil, custom_errors.ErrDatabaseQuery)

		got, err := d.CreatePost(context.Background(), input)
		assert.ErrorIs(t, err, custom_errors.ErrDatabaseQuery)
		assert.Nil(t, got)
	})
}

func TestPostServiceCacheDecorator_UpdatePost(t *testing.T) {
	update := &model.UpdatePostDTO{Title: strPtr("New")}

	t.Run("Invalidates on success", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("UpdatePost", mock.Anything, "p1", update).Return(&model.Post{ID: "p1", Title: "New"}, nil)
		postCache.On("DeletePost", mock.Anything, "p1").Return(nil)

		got, err := d.UpdatePost(context.Background(), "p1", update)
		assert.NoError(t, err)
		assert.Equal(t, "New", got.Title)
	})

	t.Run("Invalidation failure is swallowed", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("UpdatePost", mock.Anything, "p1", update).Return(&model.Post{ID: "p1", Title: "New"}, nil)
		postCache.On("DeletePost", mock.Anything, "p1").Return(errors.New("redis down"))

		_, err := d.UpdatePost(context.Background(), "p1", update)
		assert.NoError(t, err)
	})

	t.Run("Keeps cache on failure", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("UpdatePost", mock.Anything, "p1", update).Return(nil, custom_errors.ErrPostNotFound)

		_, err := d.UpdatePost(context.Background(), "p1", update)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		postCache.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	})
}

func TestPostServiceCacheDecorator_DeletePost(t *testing.T) {
	t.Run("Invalidates on success", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("DeletePost", mock.Anything, "p1").Return(nil)
		postCache.On("DeletePost", mock.Anything, "p1").Return(nil)

		assert.NoError(t, d.DeletePost(context.Background(), "p1"))
	})

	t.Run("Service error", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("DeletePost", mock.Anything, "p1").Return(custom_errors.ErrPostNotFound)

		assert.ErrorIs(t, d.DeletePost(context.Background(), "p1"), custom_errors.ErrPostNotFound)
		postCache.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	})
}

func TestPostServiceCacheDecorator_NonCanonicalIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("Get looks up the canonical key", func(t *testing.T) {
		d, _, postCache := newTestDecorator(t)
		post := &model.Post{ID: "abc"}
		postCache.On("GetPost", mock.Anything, "abc").Return(post, nil)

		got, err := d.GetPostByID(ctx, "ABC")
		assert.NoError(t, err)
		assert.Equal(t, post, got)
	})

	t.Run("Delete evicts the canonical key", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		svc.On("DeletePost", mock.Anything, "ABC").Return(nil)
		postCache.On("DeletePost", mock.Anything, "abc").Return(nil)

		assert.NoError(t, d.DeletePost(ctx, "ABC"))
	})

	t.Run("Update evicts the stored id", func(t *testing.T) {
		d, svc, postCache := newTestDecorator(t)
		update := &model.UpdatePostDTO{Title: strPtr("New")}
		svc.On("UpdatePost", mock.Anything, "ABC", update).Return(&model.Post{ID: "abc", Title: "New"}, nil)
		postCache.On("DeletePost", mock.Anything, "abc").Return(nil)

		_, err := d.UpdatePost(ctx, "ABC", update)
		assert.NoError(t, err)
	})
}

// mapPostCache is an in-process PostCache keyed exactly like the Redis one.
type mapPostCache struct {
	mu    sync.Mutex
	posts map[string]model.Post
}

func (c *mapPostCache) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[postID]
	if !ok {
		return nil, custom_errors.ErrCacheMiss
	}
	return &p, nil
}

func (c *mapPostCache) SetPost(ctx context.Context, post *model.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[post.ID] = *post
	return nil
}

func (c *mapPostCache) DeletePost(ctx context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, postID)
	return nil
}

func TestPostServiceCacheDecorator_StaleEntriesAfterNonCanonicalWrites(t *testing.T) {
	ctx := context.Background()
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	postCache := &mapPostCache{posts: map[string]model.Post{}}
	svc := NewPostServiceCacheDecorator(
		NewPostService(memory.NewPostRepository(log), log, metrics),
		postCache, log, metrics,
	)

	newPost := &model.CreatePostDTO{Author: model.Author{FirstName: "A", LastName: "B"}, Title: "T", Content: "C"}

	t.Run("Update", func(t *testing.T) {
		created, err := svc.CreatePost(ctx, newPost)
		require.NoError(t, err)

		_, err = svc.UpdatePost(ctx, strings.ToUpper(created.ID), &model.UpdatePostDTO{Title: strPtr("Changed")})
		require.NoError(t, err)

		got, err := svc.GetPostByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Changed", got.Title)
	})

	t.Run("Delete", func(t *testing.T) {
		created, err := svc.CreatePost(ctx, newPost)
		require.NoError(t, err)

		require.NoError(t, svc.DeletePost(ctx, strings.ToUpper(created.ID)))

		got, err := svc.GetPostByID(ctx, created.ID)
		assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
		assert.Nil(t, got)
	})
}
