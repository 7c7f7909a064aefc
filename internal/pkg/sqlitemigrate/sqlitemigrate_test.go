package sqlitemigrate_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/sqlitemigrate"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n))
	return n > 0
}

func TestApplyRunsEachFileOnce(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"0002_notes.sql":   {Data: []byte("-- +migrate Up\nALTER TABLE widgets ADD COLUMN note TEXT;\n-- +migrate Down\nSELECT 1;\n")},
		"0001_widgets.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE widgets (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE widgets;\n")},
		"README.md":        {Data: []byte("not a migration")},
	}

	applied, err := sqlitemigrate.Apply(ctx, db, fsys, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets.sql", "0002_notes.sql"}, applied)
	assert.True(t, tableExists(t, db, "widgets"))

	_, err = db.Exec(`INSERT INTO widgets (id, note) VALUES ('w1', 'hello')`)
	require.NoError(t, err)

	applied, err = sqlitemigrate.Apply(ctx, db, fsys, ".")
	require.NoError(t, err)
	assert.Empty(t, applied, "recorded migrations are not rerun")
}

func TestApplyFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLE ok (id TEXT);\nCREATE TABLE (;\n")},
	}

	_, err := sqlitemigrate.Apply(ctx, db, fsys, ".")
	require.Error(t, err)
	assert.False(t, tableExists(t, db, "ok"), "a failed migration is rolled back")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Zero(t, n)
}

func TestApplyRequiresDB(t *testing.T) {
	_, err := sqlitemigrate.Apply(context.Background(), nil, fstest.MapFS{}, ".")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nCREATE TABLE a (id TEXT);\n",
		sqlitemigrate.UpSection("-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"))
	assert.Equal(t, "CREATE TABLE b (id TEXT);", sqlitemigrate.UpSection("CREATE TABLE b (id TEXT);"))
}
