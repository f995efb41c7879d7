package testutils

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDB_RollsBackFailedTransaction(t *testing.T) {
	ctx := context.Background()
	db := NewMemDB()
	alice := MustInsertUser(ctx, t, db.Users(), "alice", "secret")

	boom := errors.New("boom")
	err := db.RunInTx(ctx, func(ctx context.Context, _ *sql.Tx) error {
		MustInsertTask(ctx, t, db.Tasks(), alice.ID, "discarded")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, db.TaskCount())

	assert.Panics(t, func() {
		_ = db.RunInTx(ctx, func(ctx context.Context, _ *sql.Tx) error {
			MustInsertTask(ctx, t, db.Tasks(), alice.ID, "discarded")
			panic("boom")
		})
	})
	assert.Equal(t, 0, db.TaskCount())

	require.NoError(t, db.RunInTx(ctx, func(ctx context.Context, _ *sql.Tx) error {
		MustInsertTask(ctx, t, db.Tasks(), alice.ID, "kept")
		return nil
	}))
	assert.Equal(t, 1, db.TaskCount())
}

func TestMemUserStore(t *testing.T) {
	ctx := context.Background()
	db := NewMemDB()
	users := db.Users()

	alice := MustInsertUser(ctx, t, users, "alice", "secret")

	dup := *alice
	dup.ID = uuid.New()
	assert.ErrorIs(t, users.Create(ctx, &dup), store.ErrUsernameExists)

	got, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMemTaskStore_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	db := NewMemDB()
	tasks := db.Tasks()

	alice := MustInsertUser(ctx, t, db.Users(), "alice", "secret")
	bob := MustInsertUser(ctx, t, db.Users(), "bob", "secret")

	first := MustInsertTask(ctx, t, tasks, alice.ID, "first")
	MustInsertTask(ctx, t, tasks, alice.ID, "second")
	MustInsertTask(ctx, t, tasks, bob.ID, "bobs")

	list, err := tasks.List(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)

	page, err := tasks.List(ctx, alice.ID, 5, 100)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	_, err = tasks.GetForOwner(ctx, first.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, first.ID, bob.ID), store.ErrTaskNotFound)

	stolen := *first
	stolen.OwnerID = bob.ID
	stolen.Title = "mine now"
	assert.ErrorIs(t, tasks.Update(ctx, &stolen), store.ErrTaskNotFound)

	orphan := *first
	orphan.ID = uuid.New()
	orphan.OwnerID = uuid.New()
	assert.ErrorIs(t, tasks.Create(ctx, &orphan), store.ErrUserNotFound)

	require.NoError(t, tasks.Delete(ctx, first.ID, alice.ID))
	assert.Equal(t, 2, db.TaskCount())
}
