package post_repository_mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	ports "blog-post-service/internal/domain/ports/output"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"

	model "blog-post-service/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type PostRepository struct {
	log        ports.Logger
	collection *mongo.Collection
	metrics    ports.MetricsProvider
}

func NewPostRepository(collection *mongo.Collection, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{collection: collection, log: log, metrics: metrics}
}

func (p *PostRepository) InsertMany(ctx context.Context, posts []*model.Post) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Inserting posts", slog.Int("count", len(posts)))

	if len(posts) == 0 {
		return []*model.Post{}, nil
	}

	docs := make([]*postDocument, 0, len(posts))
	batch := make([]interface{}, 0, len(posts))
	for _, post := range posts {
		doc := newPostDocument(post)
		docs = append(docs, doc)
		batch = append(batch, doc)
	}

	res, err := p.collection.InsertMany(ctx, batch)
	if err != nil {
		p.record("post_insert_many", false, start)
		p.log.Error("Error inserting posts", slog.Int("count", len(posts)), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	inserted := make([]*model.Post, 0, len(docs))
	for i, doc := range docs {
		if oid, ok := res.InsertedIDs[i].(primitive.ObjectID); ok {
			doc.ID = oid
		}
		inserted = append(inserted, doc.toModel())
	}

	p.record("post_insert_many", true, start)
	p.log.Debug("Successfully inserted posts", slog.Int("count", len(inserted)))
	return inserted, nil
}

func (p *PostRepository) Count(ctx context.Context) (int64, error) {
	start := time.Now()

	total, err := p.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		p.record("post_count", false, start)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.record("post_count", true, start)
	p.log.Debug("Counted posts", slog.Int64("total", total))
	return total, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.String("id", id))

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		p.log.Debug("Post id is not a valid ObjectID", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	var doc postDocument
	err = p.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		p.record("post_get_by_id", false, start)
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.record("post_get_by_id", true, start)
	return doc.toModel(), nil
}

func (p *PostRepository) FindOne(ctx context.Context) (*model.Post, error) {
	start := time.Now()

	var doc postDocument
	err := p.collection.FindOne(ctx, bson.D{}).Decode(&doc)
	if err != nil {
		p.record("post_find_one", false, start)
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("No posts stored")
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error finding a post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.record("post_find_one", true, start)
	return doc.toModel(), nil
}

func (p *PostRepository) List(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts")

	opts := options.Find().SetSort(bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := p.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		p.record("post_list", false, start)
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		p.record("post_list", false, start)
		p.log.Error("Error decoding posts during List", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	posts := make([]*model.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}

	p.record("post_list", true, start)
	p.log.Debug("Retrieved posts in List", slog.Int("count", len(posts)))
	return posts, nil
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("title", post.Title), slog.String("author", post.Author.FullName()))

	doc := newPostDocument(post)
	res, err := p.collection.InsertOne(ctx, doc)
	if err != nil {
		p.record("post_create", false, start)
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}

	p.record("post_create", true, start)
	p.log.Debug("Successfully created post", slog.String("id", doc.ID.Hex()))
	return doc.toModel(), nil
}

func (p *PostRepository) Update(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Updating post", slog.String("id", id))

	if update.IsEmpty() {
		p.log.Debug("No fields to update", slog.String("id", id))
		return nil, custom_errors.ErrNoUpdateRows
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, custom_errors.ErrPostNotFound
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Author != nil && update.Author.FirstName != nil {
		set["author.firstName"] = *update.Author.FirstName
	}
	if update.Author != nil && update.Author.LastName != nil {
		set["author.lastName"] = *update.Author.LastName
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	err = p.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		p.record("post_update", false, start)
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("Post not found by id during Update", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.record("post_update", true, start)
	p.log.Debug("Successfully updated post", slog.String("id", id), slog.Int("fields", len(set)))
	return doc.toModel(), nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	p.log.Debug("Deleting post", slog.String("id", id))

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return custom_errors.ErrPostNotFound
	}

	res, err := p.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		p.record("post_delete", false, start)
		p.log.Error("Error deleting post", slog.String("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if res.DeletedCount == 0 {
		p.record("post_delete", false, start)
		p.log.Debug("Post not found during deletion", slog.String("id", id))
		return custom_errors.ErrPostNotFound
	}

	p.record("post_delete", true, start)
	p.log.Debug("Successfully deleted post", slog.String("id", id))
	return nil
}

func (p *PostRepository) Drop(ctx context.Context) error {
	if err := p.collection.Drop(ctx); err != nil {
		p.log.Error("Error dropping posts collection", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	p.log.Warn("Dropped posts collection", slog.String("collection", p.collection.Name()))
	return nil
}

func (p *PostRepository) Ping(ctx context.Context) error {
	if err := p.collection.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		p.log.Error("Mongo ping failed", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (p *PostRepository) CanonicalID(id string) string {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return oid.Hex()
}

func (p *PostRepository) record(queryType string, success bool, start time.Time) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}
