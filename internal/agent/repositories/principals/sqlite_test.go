package principals

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE principals (
		uid  TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`)
	require.NoError(t, err)

	return db
}

func TestSQLiteRepository_PutAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	p := &models.UserProfile{
		UID: "u1", Email: "worker@example.com", FullName: "Ana Pérez",
		Role: models.RoleFieldWorker, GroupAssignment: "grupo-a", IsActive: true,
	}
	require.NoError(t, repo.Put(ctx, p))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSQLiteRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Put(ctx, &models.UserProfile{UID: "u1", Role: models.RoleFieldWorker}))
	require.NoError(t, repo.Put(ctx, &models.UserProfile{UID: "u1", Role: models.RoleAdmin}))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestSQLiteRepository_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
