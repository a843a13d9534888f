package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskserver/task-api/internal/core/domain"
)

// connectForTest connects to MONGO_URI with a throwaway database, or skips.
func connectForTest(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping integration test")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{
		URI:      uri,
		Database: fmt.Sprintf("taskapi_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestTaskRepository_Integration(t *testing.T) {
	db := connectForTest(t)
	repo := NewTaskRepository(db, "")
	ctx := context.Background()

	fields := domain.TaskFields{
		"title":    "integration",
		"priority": float64(3),
		"tags":     []any{"x", "y"},
		"meta":     map[string]any{"owner": "alice"},
	}

	id, err := repo.Insert(ctx, fields)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, fields, got.Fields)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)

	matched, modified, err := repo.SetStatus(ctx, id, domain.StatusComplete)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(1), modified)

	matched, modified, err = repo.SetStatus(ctx, id, domain.StatusComplete)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(0), modified)

	n, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUserRepository_Integration_UniqueEmail(t *testing.T) {
	db := connectForTest(t)
	repo := NewUserRepository(db, "")
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	id, err := repo.Create(ctx, &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = repo.Create(ctx, &domain.User{Name: "Alice 2", Email: "alice@example.com", PasswordHash: "hash2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	u, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = repo.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestActivityRepository_Integration(t *testing.T) {
	db := connectForTest(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Insert(ctx, &domain.TaskActivity{TaskID: "t1", Action: domain.ActionCreated, At: base}))
	require.NoError(t, repo.Insert(ctx, &domain.TaskActivity{TaskID: "t2", Action: domain.ActionCreated, At: base}))
	require.NoError(t, repo.Insert(ctx, &domain.TaskActivity{TaskID: "t1", Action: domain.ActionCompleted, Actor: "bob", At: base.Add(time.Second)}))

	got, err := repo.ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionCreated, got[0].Action)
	assert.Equal(t, domain.ActionCompleted, got[1].Action)
	assert.Equal(t, "bob", got[1].Actor)
}
