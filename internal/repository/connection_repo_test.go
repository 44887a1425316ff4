package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnectionRepository_UniquePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.NewConnection(uuid.NewString(), "alice", "bob")))

	err := repo.Create(ctx, domain.NewConnection(uuid.NewString(), "bob", "alice"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var n int64
	db.Model(&domain.Connection{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestConnectionRepository_FindBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	c := seedConnection(t, db, "alice", "bob", domain.ConnectionPending)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		got, err := repo.FindBetween(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
	}

	_, err := repo.FindBetween(ctx, "alice", "carol")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConnectionRepository_UpdateStatus_FiltersOnAddressee(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	c := seedConnection(t, db, "alice", "bob", domain.ConnectionPending)

	n, err := repo.UpdateStatus(ctx, c.ID, "alice", domain.ConnectionPending, domain.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "requester must not be able to accept")

	n, err = repo.UpdateStatus(ctx, c.ID, "bob", domain.ConnectionPending, domain.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionAccepted, got.Status)

	n, err = repo.UpdateStatus(ctx, c.ID, "bob", domain.ConnectionPending, domain.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "stale transition must not apply")
}

func TestConnectionRepository_Reopen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	c := seedConnection(t, db, "alice", "bob", domain.ConnectionRejected)
	require.NoError(t, c.Reopen("bob"))

	n, err := repo.Reopen(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.RequesterID)
	assert.Equal(t, "alice", got.AddresseeID)
	assert.Equal(t, domain.ConnectionPending, got.Status)
}

func TestConnectionRepository_DeleteBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	seedConnection(t, db, "alice", "bob", domain.ConnectionAccepted)
	seedConnection(t, db, "alice", "carol", domain.ConnectionRejected)

	n, err := repo.DeleteBetween(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteBetween(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "rejected rows are not removable")

	n, err = repo.DeleteBetween(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestConnectionRepository_ListAccepted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	alice := seedProfile(t, db, &domain.Profile{FirstName: "Alice", LastName: "A", PhotoURL: "https://img/a.png"})
	bob := seedProfile(t, db, &domain.Profile{FirstName: "Bob", LastName: "B"})
	carol := seedProfile(t, db, &domain.Profile{FirstName: "Carol", LastName: "C"})
	dave := seedProfile(t, db, &domain.Profile{FirstName: "Dave", LastName: "D"})

	older := seedConnection(t, db, alice.ID, bob.ID, domain.ConnectionAccepted)
	newer := seedConnection(t, db, carol.ID, alice.ID, domain.ConnectionAccepted)
	seedConnection(t, db, alice.ID, dave.ID, domain.ConnectionPending)
	db.Model(&domain.Connection{}).Where("id = ?", older.ID).
		Update("updated_at", newer.UpdatedAt.Add(-time.Minute))

	rows, err := repo.ListAccepted(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.Equal(t, "Carol", rows[0].RequesterFirstName)
	assert.Equal(t, "Alice", rows[0].AddresseeFirstName)
	assert.Equal(t, "https://img/a.png", rows[1].RequesterPhotoURL)
	assert.Equal(t, "Bob", rows[1].AddresseeFirstName)
}

func TestConnectionRepository_PendingAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	alice := seedProfile(t, db, &domain.Profile{FirstName: "Alice"})
	bob := seedProfile(t, db, &domain.Profile{FirstName: "Bob"})
	carol := seedProfile(t, db, &domain.Profile{FirstName: "Carol"})

	seedConnection(t, db, bob.ID, alice.ID, domain.ConnectionPending)
	seedConnection(t, db, alice.ID, carol.ID, domain.ConnectionPending)

	rows, err := repo.ListPendingFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bob.ID, rows[0].RequesterID)
	assert.Equal(t, "Bob", rows[0].RequesterFirstName)

	n, err := repo.CountPendingFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountAccepted(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
