//go:build integration

package delivery_http_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	post_repository "blog-post-service/internal/domain/ports/output/post"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/logger"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
	mongo_client "blog-post-service/internal/infrastructure/outbound/repository/mongo"
	post_repository_mongo "blog-post-service/internal/infrastructure/outbound/repository/post/mongo"
	post_repository_postgres "blog-post-service/internal/infrastructure/outbound/repository/post/postgres"
	"blog-post-service/internal/infrastructure/outbound/repository/postgres/migrations"
)

func TestPostsAPI_TestDatabase(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	log := logger.New("test")
	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	ctx := context.Background()

	var repo post_repository.Repository
	if strings.HasPrefix(url, "mongodb") {
		client, err := mongo_client.Connect(ctx, url, log)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
		repo = post_repository_mongo.NewPostRepository(
			mongo_client.Collection(client, config.Mongo{Database: "blog_test", Collection: "posts"}),
			log,
			metrics,
		)
	} else {
		require.NoError(t, migrations.Up(url, log))
		pool, err := pgxpool.New(ctx, url)
		require.NoError(t, err)
		t.Cleanup(pool.Close)
		repo = post_repository_postgres.NewPostRepository(pool, log, metrics)
	}
	require.NoError(t, repo.Drop(ctx))

	suite.Run(t, &PostsAPISuite{repo: repo})
}
