package repository

import (
	"context"
	"testing"

	"payouts/models"
	"payouts/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingUpdateRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewPendingUpdateRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "asha@example.com", "Asha", testutil.TestPasswordHash, 0)
	require.NoError(t, err)

	t.Run("create fills id and timestamp", func(t *testing.T) {
		update := testutil.CreateTestPendingUpdate(user.ID, user.Name, 123450)
		err := repo.Create(ctx, update)
		require.NoError(t, err)

		assert.NotZero(t, update.ID)
		assert.False(t, update.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, update.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, "Asha", got.Name)
		assert.Equal(t, models.Cents(123450), got.NewBalance)
	})

	t.Run("get by id not found", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("dangling user reference is allowed", func(t *testing.T) {
		// No foreign key on user_id: a request may reference a user
		// that no longer exists.
		update := testutil.CreateTestPendingUpdate(424242, "Ghost", 100)
		err := repo.Create(ctx, update)
		require.NoError(t, err)
	})

	t.Run("multiple requests per user", func(t *testing.T) {
		first := testutil.CreateTestPendingUpdate(user.ID, user.Name, 100)
		second := testutil.CreateTestPendingUpdate(user.ID, user.Name, 200)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)
	})
}

func TestPendingUpdateRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewPendingUpdateRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "asha@example.com", "Asha", testutil.TestPasswordHash, 0)
	require.NoError(t, err)

	update := testutil.CreateTestPendingUpdate(user.ID, user.Name, 123450)
	require.NoError(t, repo.Create(ctx, update))

	t.Run("first delete claims the row", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, update.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("second delete reports nothing deleted", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, update.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("row is gone", func(t *testing.T) {
		got, err := repo.GetByID(ctx, update.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
