package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPgx5URL(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "postgresql scheme", dsn: "postgresql://u:p@db:5432/blog?sslmode=disable", want: "pgx5://u:p@db:5432/blog?sslmode=disable"},
		{name: "postgres scheme", dsn: "postgres://u:p@db/blog", want: "pgx5://u:p@db/blog"},
		{name: "already pgx5", dsn: "pgx5://u:p@db/blog", want: "pgx5://u:p@db/blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toPgx5URL(tt.dsn))
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := files.ReadDir("sql")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_posts.up.sql")
	assert.Contains(t, names, "000001_create_posts.down.sql")
}
