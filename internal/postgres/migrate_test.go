package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://app:secret@db:5432/shop?sslmode=disable",
		migrateURL("postgres://app:secret@db:5432/shop?sslmode=disable"))
	assert.Equal(t, "pgx5://db/shop", migrateURL("postgresql://db/shop"))
	assert.Equal(t, "pgx5://db/shop", migrateURL("pgx5://db/shop"))
}

func TestMigrationsEmbedded(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
