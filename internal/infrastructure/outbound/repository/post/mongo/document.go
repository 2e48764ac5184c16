package post_repository_mongo

import (
	"time"

	model "blog-post-service/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authorDocument struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

type postDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Author  authorDocument     `bson:"author"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Created time.Time          `bson:"created"`
}

func newPostDocument(post *model.Post) *postDocument {
	created := post.Created
	if created.IsZero() {
		created = time.Now()
	}
	return &postDocument{
		Author: authorDocument{
			FirstName: post.Author.FirstName,
			LastName:  post.Author.LastName,
		},
		Title:   post.Title,
		Content: post.Content,
		Created: created.UTC().Truncate(time.Millisecond),
	}
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID: d.ID.Hex(),
		Author: model.Author{
			FirstName: d.Author.FirstName,
			LastName:  d.Author.LastName,
		},
		Title:   d.Title,
		Content: d.Content,
		Created: d.Created,
	}
}
