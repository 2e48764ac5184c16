package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connect dials the document store and verifies the primary answers.
func Connect(ctx context.Context, uri string, log ports.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Error("Failed to create Mongo client", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("Failed to connect to Mongo", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	log.Info("Successfully connected to Mongo")
	return client, nil
}

func Collection(client *mongo.Client, cfg config.Mongo) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}
