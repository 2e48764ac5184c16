package post_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	model "blog-post-service/internal/domain/models"
	post_service "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
	post_repository "blog-post-service/internal/domain/ports/output/post"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

type PostService struct {
	postRepo post_repository.Repository
	log      ports.Logger
	metrics  ports.MetricsProvider
	now      func() time.Time
}

func NewPostService(postRepo post_repository.Repository, log ports.Logger, metrics ports.MetricsProvider) post_service.Service {
	return &PostService{
		postRepo: postRepo,
		log:      log,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *PostService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.IncrementPostOperations("list", true)
	return posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("get", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found", slog.String("post_id", id))
		} else {
			s.log.Error("Failed to get post", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.metrics.IncrementPostOperations("get", true)
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	if post == nil {
		s.metrics.IncrementPostOperations("create", false)
		return nil, custom_errors.ErrPostValidation
	}

	created, err := s.postRepo.Create(ctx, &model.Post{
		Author:  post.Author,
		Title:   post.Title,
		Content: post.Content,
		Created: s.now().UTC(),
	})
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.IncrementPostOperations("create", true)
	s.log.Info("Post created", slog.String("post_id", created.ID))
	return created, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error) {
	if update.IsEmpty() {
		s.metrics.IncrementPostOperations("update", false)
		s.log.Debug("Rejecting empty update", slog.String("post_id", id))
		return nil, custom_errors.ErrNoUpdateRows
	}

	updated, err := s.postRepo.Update(ctx, id, update)
	if err != nil {
		s.metrics.IncrementPostOperations("update", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post to update not found", slog.String("post_id", id))
		} else {
			s.log.Error("Failed to update post", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.metrics.IncrementPostOperations("update", true)
	s.log.Info("Post updated", slog.String("post_id", id))
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		s.metrics.IncrementPostOperations("delete", false)
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post to delete not found", slog.String("post_id", id))
		} else {
			s.log.Error("Failed to delete post", slog.String("post_id", id), slog.String("error", err.Error()))
		}
		return err
	}

	s.metrics.IncrementPostOperations("delete", true)
	s.log.Info("Post deleted", slog.String("post_id", id))
	return nil
}

func (s *PostService) CanonicalID(id string) string {
	return s.postRepo.CanonicalID(id)
}
