package post_service

import (
	"context"

	model "blog-post-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostService.go
type Service interface {
	ListPosts(ctx context.Context) ([]*model.Post, error)
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	CanonicalID(id string) string
}
