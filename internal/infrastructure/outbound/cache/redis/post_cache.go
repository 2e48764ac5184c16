package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

const postCacheKeyPrefix = "post:"

type PostCache struct {
	client *Client
	ttl    time.Duration
	log    ports.Logger
}

func NewPostCache(client *Client, ttl time.Duration, log ports.Logger) *PostCache {
	return &PostCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (p *PostCache) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	var post model.Post
	if err := p.client.Get(ctx, postKey(postID), &post); err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			p.log.Debug("Post cache miss", slog.String("post_id", postID))
			return nil, custom_errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get post from cache: %w", err)
	}

	p.log.Debug("Post cache hit", slog.String("post_id", postID))
	return &post, nil
}

func (p *PostCache) SetPost(ctx context.Context, post *model.Post) error {
	if post == nil || post.ID == "" {
		return fmt.Errorf("post without id cannot be cached")
	}

	if err := p.client.Set(ctx, postKey(post.ID), post, p.ttl); err != nil {
		return fmt.Errorf("failed to set post cache: %w", err)
	}

	p.log.Debug("Post cached", slog.String("post_id", post.ID), slog.Duration("ttl", p.ttl))
	return nil
}

func (p *PostCache) DeletePost(ctx context.Context, postID string) error {
	if err := p.client.Delete(ctx, postKey(postID)); err != nil {
		return fmt.Errorf("failed to delete post from cache: %w", err)
	}

	p.log.Debug("Post evicted from cache", slog.String("post_id", postID))
	return nil
}

func postKey(postID string) string {
	return postCacheKeyPrefix + postID
}
