package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiasleandrokruk/relaychat/internal/infra/sqlite"
)

func TestMigrateUp_CreatesKVStore(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	require.NoError(t, sqlite.MigrateUp(db))

	assertTableExists(t, db, "schema_migrations")
	assertTableExists(t, db, "kv_store")
}

func TestMigrateUp_Idempotent(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	require.NoError(t, sqlite.MigrateUp(db))
	require.NoError(t, sqlite.MigrateUp(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)

	v, err := sqlite.MigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, sqlite.MigrateUp(db))
	v, err = sqlite.MigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
