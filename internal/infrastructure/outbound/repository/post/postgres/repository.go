package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"

	model "blog-post-service/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const postColumns = "id, author_first_name, author_last_name, title, content, created"

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) InsertMany(ctx context.Context, posts []*model.Post) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Inserting posts", slog.Int("count", len(posts)))

	if len(posts) == 0 {
		return []*model.Post{}, nil
	}

	query := `
		INSERT INTO posts (author_first_name, author_last_name, title, content, created)
		VALUES (@author_first_name, @author_last_name, @title, @content, @created)
		RETURNING ` + postColumns

	inserted := make([]*model.Post, 0, len(posts))
	err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, post := range posts {
			batch.Queue(query, p.insertArgs(post))
		}

		results := tx.SendBatch(ctx, batch)
		for range posts {
			created, err := scanPost(results.QueryRow())
			if err != nil {
				_ = results.Close()
				return err
			}
			inserted = append(inserted, created)
		}
		return results.Close()
	})
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_insert_many", false)
		p.metrics.RecordDatabaseQueryDuration("post_insert_many", time.Since(start))
		p.log.Error("Error inserting posts", slog.Int("count", len(posts)), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_insert_many", true)
	p.metrics.RecordDatabaseQueryDuration("post_insert_many", time.Since(start))
	p.log.Debug("Successfully inserted posts", slog.Int("count", len(inserted)))
	return inserted, nil
}

func (p *PostRepository) Count(ctx context.Context) (int64, error) {
	start := time.Now()

	var total int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		p.metrics.IncrementDatabaseQueries("post_count", false)
		p.metrics.RecordDatabaseQueryDuration("post_count", time.Since(start))
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_count", true)
	p.metrics.RecordDatabaseQueryDuration("post_count", time.Since(start))
	p.log.Debug("Counted posts", slog.Int64("total", total))
	return total, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id))

	pgID, ok := parseID(id)
	if !ok {
		p.log.Debug("Post id is not a valid uuid", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = @id`
	post, err := scanPost(p.db.QueryRow(ctx, query, pgx.NamedArgs{"id": pgID}))
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_get_by_id", false)
		p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_get_by_id", true)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
	p.log.Debug("Successfully retrieved post by ID", slog.String("id", post.ID))
	return post, nil
}

func (p *PostRepository) FindOne(ctx context.Context) (*model.Post, error) {
	start := time.Now()

	query := `SELECT ` + postColumns + ` FROM posts LIMIT 1`
	post, err := scanPost(p.db.QueryRow(ctx, query))
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_find_one", false)
		p.metrics.RecordDatabaseQueryDuration("post_find_one", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("No posts stored")
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error finding a post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_find_one", true)
	p.metrics.RecordDatabaseQueryDuration("post_find_one", time.Since(start))
	return post, nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts")

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created DESC, id`
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.metrics.IncrementDatabaseQueries("post_list", false)
			p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_list", true)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	p.log.Debug("Retrieved posts in List", slog.Int("count", len(posts)))
	return posts, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("title", post.Title), slog.String("author", post.Author.FullName()))

	query := `
		INSERT INTO posts (author_first_name, author_last_name, title, content, created)
		VALUES (@author_first_name, @author_last_name, @title, @content, @created)
		RETURNING ` + postColumns

	createdPost, err := scanPost(p.db.QueryRow(ctx, query, p.insertArgs(post)))
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
	p.log.Debug("Successfully created post", slog.String("id", createdPost.ID))
	return createdPost, nil
}

func (p *PostRepository) Update(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", id))

	if update.IsEmpty() {
		p.log.Debug("No fields to update", slog.String("id", id))
		return nil, custom_errors.ErrNoUpdateRows
	}

	pgID, ok := parseID(id)
	if !ok {
		p.log.Debug("Post id is not a valid uuid", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	setClauses := []string{}
	args := pgx.NamedArgs{"id": pgID}

	if update.Title != nil {
		setClauses = append(setClauses, "title = @title")
		args["title"] = *update.Title
	}
	if update.Content != nil {
		setClauses = append(setClauses, "content = @content")
		args["content"] = *update.Content
	}
	if update.Author != nil && update.Author.FirstName != nil {
		setClauses = append(setClauses, "author_first_name = @author_first_name")
		args["author_first_name"] = *update.Author.FirstName
	}
	if update.Author != nil && update.Author.LastName != nil {
		setClauses = append(setClauses, "author_last_name = @author_last_name")
		args["author_last_name"] = *update.Author.LastName
	}

	p.log.Debug("Building update query", slog.String("id", id), slog.Int("set_clauses_count", len(setClauses)))
	query := "UPDATE posts SET " + strings.Join(setClauses, ", ") + " WHERE id = @id RETURNING " + postColumns

	updatedPost, err := scanPost(p.db.QueryRow(ctx, query, args))
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_update", false)
		p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_update", true)
	p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))
	p.log.Debug("Successfully updated post", slog.String("id", updatedPost.ID))
	return updatedPost, nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	p.log.Debug("Deleting post", slog.String("id", id))

	pgID, ok := parseID(id)
	if !ok {
		return custom_errors.ErrPostNotFound
	}

	result, err := p.db.Exec(ctx, `DELETE FROM posts WHERE id = @id`, pgx.NamedArgs{"id": pgID})
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_delete", false)
		p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
		p.log.Error("Error deleting post", slog.String("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		p.metrics.IncrementDatabaseQueries("post_delete", false)
		p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
		p.log.Debug("Post not found during deletion", slog.String("id", id))
		return custom_errors.ErrPostNotFound
	}

	p.metrics.IncrementDatabaseQueries("post_delete", true)
	p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
	p.log.Debug("Successfully deleted post", slog.String("id", id))
	return nil
}

// Drop removes every post but keeps the schema.
func (p *PostRepository) Drop(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, `TRUNCATE TABLE posts`); err != nil {
		p.log.Error("Error truncating posts", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	p.log.Warn("Deleted all posts")
	return nil
}

func (p *PostRepository) Ping(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, `SELECT 1`); err != nil {
		p.log.Error("Postgres ping failed", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (p *PostRepository) CanonicalID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

func (p *PostRepository) insertArgs(post *model.Post) pgx.NamedArgs {
	created := post.Created
	if created.IsZero() {
		created = time.Now()
	}
	return pgx.NamedArgs{
		"author_first_name": post.Author.FirstName,
		"author_last_name":  post.Author.LastName,
		"title":             post.Title,
		"content":           post.Content,
		"created":           pgtype.Timestamptz{Time: created, Valid: true},
	}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		id      pgtype.UUID
		created pgtype.Timestamptz
		post    model.Post
	)
	err := row.Scan(
		&id,
		&post.Author.FirstName,
		&post.Author.LastName,
		&post.Title,
		&post.Content,
		&created,
	)
	if err != nil {
		return nil, err
	}
	post.ID = uuid.UUID(id.Bytes).String()
	post.Created = created.Time
	return &post, nil
}

func parseID(id string) (pgtype.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, true
}
