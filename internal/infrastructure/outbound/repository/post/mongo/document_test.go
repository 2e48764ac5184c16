package post_repository_mongo

import (
	"testing"
	"time"

	model "blog-post-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostDocument_RoundTrip(t *testing.T) {
	created := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	post := &model.Post{
		Author:  model.Author{FirstName: "Ada", LastName: "Lovelace"},
		Title:   "Notes",
		Content: "On the analytical engine",
		Created: created,
	}

	doc := newPostDocument(post)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var decoded postDocument
	assert.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toModel()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, post.Author, got.Author)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Content, got.Content)
	assert.True(t, created.Equal(got.Created))
}

func TestPostDocument_AuthorIsEmbedded(t *testing.T) {
	doc := newPostDocument(&model.Post{Author: model.Author{FirstName: "A", LastName: "B"}, Title: "T", Content: "C"})

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var m bson.M
	assert.NoError(t, bson.Unmarshal(raw, &m))

	author, ok := m["author"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, "A", author["firstName"])
	assert.Equal(t, "B", author["lastName"])
	assert.NotContains(t, m, "_id")
	assert.False(t, doc.Created.IsZero())
}

func TestPostDocument_CreatedMatchesStoredPrecision(t *testing.T) {
	created := time.Date(2021, 3, 4, 5, 6, 7, 123456789, time.FixedZone("X", 3600))
	doc := newPostDocument(&model.Post{Title: "T", Created: created})

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)
	var decoded postDocument
	assert.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.True(t, doc.Created.Equal(decoded.Created))
	assert.Equal(t, 123000000, doc.Created.Nanosecond())
	assert.Equal(t, time.UTC, doc.Created.Location())
}
