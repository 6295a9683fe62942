package repository

import (
	"context"
	"testing"

	"payouts/models"
	"payouts/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create initializes zero balance", func(t *testing.T) {
		user, err := repo.Create(ctx, "asha@example.com", "Asha", testutil.TestPasswordHash, 0)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, "Asha", user.Name)
		assert.Equal(t, models.Cents(0), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		_, err := repo.Create(ctx, "asha@example.com", "Other Asha", testutil.TestPasswordHash, 0)
		assert.Error(t, err)
	})

	t.Run("get by email", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Asha", user.Name)
	})

	t.Run("get by email not found", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("get by id not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_GetLeaderboard(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty leaderboard", func(t *testing.T) {
		users, err := repo.GetLeaderboard(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("ordered by balance descending", func(t *testing.T) {
		_, err := repo.Create(ctx, "low@example.com", "Low", testutil.TestPasswordHash, 1000)
		require.NoError(t, err)
		_, err = repo.Create(ctx, "high@example.com", "High", testutil.TestPasswordHash, 500000)
		require.NoError(t, err)
		_, err = repo.Create(ctx, "mid@example.com", "Mid", testutil.TestPasswordHash, 123450)
		require.NoError(t, err)

		users, err := repo.GetLeaderboard(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)

		assert.Equal(t, "High", users[0].Name)
		assert.Equal(t, "Mid", users[1].Name)
		assert.Equal(t, "Low", users[2].Name)

		for i := 1; i < len(users); i++ {
			assert.GreaterOrEqual(t, users[i-1].Balance, users[i].Balance)
		}
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "asha@example.com", "Asha", testutil.TestPasswordHash, 0)
	require.NoError(t, err)

	t.Run("sets new balance", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, user.ID, 123450)
		require.NoError(t, err)

		updated, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.Cents(123450), updated.Balance)
	})

	t.Run("unknown user fails", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 999999, 100)
		assert.Error(t, err)
	})

	t.Run("negative balance rejected by constraint", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, user.ID, -100)
		assert.Error(t, err)
	})
}
