package testutil

import (
	"time"

	"payouts/models"
)

// TestPasswordHash is a bcrypt hash of "password" for factory users
const TestPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CreateTestUser creates a test user with default values
func CreateTestUser(email, name string) *models.User {
	now := time.Now()
	return &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: TestPasswordHash,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(email, name string, balance models.Cents) *models.User {
	user := CreateTestUser(email, name)
	user.Balance = balance
	return user
}

// CreateTestPendingUpdate creates a test pending update for a user
func CreateTestPendingUpdate(userID int64, name string, newBalance models.Cents) *models.PendingUpdate {
	return &models.PendingUpdate{
		UserID:     userID,
		Name:       name,
		NewBalance: newBalance,
	}
}
