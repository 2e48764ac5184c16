package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	ports "blog-post-service/internal/domain/ports/output"

	"github.com/google/uuid"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"

	model "blog-post-service/internal/domain/models"
)

type PostRepository struct {
	log   ports.Logger
	mu    sync.RWMutex
	posts map[string]*model.Post
}

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:   log,
		posts: make(map[string]*model.Post),
	}
}

func (p *PostRepository) InsertMany(ctx context.Context, posts []*model.Post) ([]*model.Post, error) {
	p.log.Debug("Inserting posts (memory impl)", slog.Int("count", len(posts)))

	p.mu.Lock()
	defer p.mu.Unlock()

	inserted := make([]*model.Post, 0, len(posts))
	for _, post := range posts {
		inserted = append(inserted, p.insertLocked(post))
	}
	return inserted, nil
}

func (p *PostRepository) Count(ctx context.Context) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return int64(len(p.posts)), nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	id = p.CanonicalID(id)

	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) FindOne(ctx context.Context) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, post := range p.posts {
		result := *post
		return &result, nil
	}
	return nil, custom_errors.ErrPostNotFound
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0, len(p.posts))
	for _, post := range p.posts {
		postCopy := *post
		result = append(result, &postCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Created.Equal(result[j].Created) {
			return result[i].ID < result[j].ID
		}
		return result[i].Created.After(result[j].Created)
	})

	p.log.Debug("Returning posts (memory impl)", slog.Int("count", len(result)))
	return result, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.log.Debug("Creating new post (memory impl)", slog.String("title", post.Title))

	p.mu.Lock()
	defer p.mu.Unlock()

	created := p.insertLocked(post)
	p.log.Debug("Successfully created post (memory impl)", slog.String("id", created.ID))
	return created, nil
}

func (p *PostRepository) Update(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error) {
	if update.IsEmpty() {
		return nil, custom_errors.ErrNoUpdateRows
	}

	id = p.CanonicalID(id)

	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	update.Apply(post)

	result := *post
	return &result, nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	id = p.CanonicalID(id)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.posts[id]; !exists {
		return custom_errors.ErrPostNotFound
	}

	delete(p.posts, id)
	return nil
}

func (p *PostRepository) Drop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.posts = make(map[string]*model.Post)
	p.log.Warn("Deleted all posts (memory impl)")
	return nil
}

func (p *PostRepository) Ping(ctx context.Context) error {
	return nil
}

// CanonicalID lower-cases uuid ids the way the postgres backend does.
func (p *PostRepository) CanonicalID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

func (p *PostRepository) insertLocked(post *model.Post) *model.Post {
	newPost := &model.Post{
		ID:      uuid.NewString(),
		Author:  post.Author,
		Title:   post.Title,
		Content: post.Content,
		Created: post.Created,
	}
	if newPost.Created.IsZero() {
		newPost.Created = time.Now().UTC()
	}
	p.posts[newPost.ID] = newPost

	result := *newPost
	return &result
}
