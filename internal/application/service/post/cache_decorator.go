package post_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	model "blog-post-service/internal/domain/models"
	post_service "blog-post-service/internal/domain/ports/input/post"
	output "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/domain/ports/output/cache"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

type PostServiceCacheDecorator struct {
	service   post_service.Service
	postCache cache.PostCache
	log       output.Logger
	metrics   output.MetricsProvider
}

func NewPostServiceCacheDecorator(
	service post_service.Service,
	postCache cache.PostCache,
	log output.Logger,
	metrics output.MetricsProvider,
) post_service.Service {
	return &PostServiceCacheDecorator{
		service:   service,
		postCache: postCache,
		log:       log,
		metrics:   metrics,
	}
}

// ListPosts is never cached so the listing always matches the store.
func (d *PostServiceCacheDecorator) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return d.service.ListPosts(ctx)
}

func (d *PostServiceCacheDecorator) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	cacheStart := time.Now()
	cachedPost, err := d.postCache.GetPost(ctx, d.service.CanonicalID(id))
	d.metrics.RecordCacheOperationDuration("post_get", time.Since(cacheStart))
	if err == nil {
		d.metrics.IncrementCacheHits()
		return cachedPost, nil
	}

	if errors.Is(err, custom_errors.ErrCacheMiss) {
		d.metrics.IncrementCacheMisses()
	} else {
		d.log.Warn("Failed to get post from cache",
			slog.String("post_id", id),
			slog.String("error", err.Error()))
	}

	post, err := d.service.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.cachePost(ctx, post)
	return post, nil
}

func (d *PostServiceCacheDecorator) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	created, err := d.service.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	d.cachePost(ctx, created)
	return created, nil
}

func (d *PostServiceCacheDecorator) UpdatePost(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error) {
	updated, err := d.service.UpdatePost(ctx, id, update)
	if err != nil {
		return nil, err
	}

	d.evict(ctx, updated.ID, "update")
	return updated, nil
}

func (d *PostServiceCacheDecorator) DeletePost(ctx context.Context, id string) error {
	if err := d.service.DeletePost(ctx, id); err != nil {
		return err
	}

	d.evict(ctx, d.service.CanonicalID(id), "delete")
	return nil
}

func (d *PostServiceCacheDecorator) CanonicalID(id string) string {
	return d.service.CanonicalID(id)
}

func (d *PostServiceCacheDecorator) cachePost(ctx context.Context, post *model.Post) {
	start := time.Now()
	if err := d.postCache.SetPost(ctx, post); err != nil {
		d.log.Warn("Failed to cache post",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("post_set", time.Since(start))
}

func (d *PostServiceCacheDecorator) evict(ctx context.Context, id, reason string) {
	start := time.Now()
	if err := d.postCache.DeletePost(ctx, id); err != nil {
		d.log.Warn("Failed to invalidate post cache",
			slog.String("post_id", id),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("post_delete", time.Since(start))
}
