package post_repository

import (
	"context"

	model "blog-post-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	InsertMany(ctx context.Context, posts []*model.Post) ([]*model.Post, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	FindOne(ctx context.Context) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	Update(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	Drop(ctx context.Context) error
	Ping(ctx context.Context) error
	// CanonicalID returns the form ids are stored under, or id unchanged if the backend cannot parse it.
	CanonicalID(id string) string
}
