package service

import (
	"context"

	"payouts/events"
	"payouts/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user with the initial balance
	Create(ctx context.Context, email, name, passwordHash string, initialBalance models.Cents) (*models.User, error)

	// GetByID retrieves a user by their ID, nil if not found
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by their email address, nil if not found
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetLeaderboard returns all users ordered by balance descending
	GetLeaderboard(ctx context.Context) ([]*models.User, error)

	// UpdateBalance sets a user's balance
	UpdateBalance(ctx context.Context, id int64, newBalance models.Cents) error
}

// PendingUpdateRepository defines the interface for pending update data access
type PendingUpdateRepository interface {
	// Create creates a new pending update and fills in its ID and timestamp
	Create(ctx context.Context, update *models.PendingUpdate) error

	// GetByID retrieves a pending update by its ID, nil if not found
	GetByID(ctx context.Context, id int64) (*models.PendingUpdate, error)

	// GetAll returns all pending updates, oldest first
	GetAll(ctx context.Context) ([]*models.PendingUpdate, error)

	// Delete removes a pending update, reporting whether a row was deleted
	Delete(ctx context.Context, id int64) (bool, error)
}

// LeaderboardService defines the balance update workflow: reading the
// leaderboard, submitting change requests and moderator-gated review.
type LeaderboardService interface {
	// Leaderboard returns users ordered by balance descending. Store
	// failures degrade to an empty leaderboard instead of an error.
	Leaderboard(ctx context.Context) []*models.User

	// SubmitUpdate records a balance change request for the given user
	SubmitUpdate(ctx context.Context, userID int64, newBalance models.Cents) (*models.PendingUpdate, error)

	// PendingUpdates returns all open requests; the caller must be a moderator
	PendingUpdates(ctx context.Context, callerEmail string) ([]*models.PendingUpdate, error)

	// ApproveUpdate applies a pending update to its user's balance and
	// removes it, in one transaction. Returns the updated user.
	ApproveUpdate(ctx context.Context, updateID int64, approverEmail string) (*models.User, error)

	// DismissUpdate discards a pending update without applying it
	DismissUpdate(ctx context.Context, updateID int64, moderatorEmail string) error

	// IsModerator checks whether an email may review pending updates
	IsModerator(email string) bool
}

// AuthService defines the identity operations: email+password signup
// and login, logout notification and current-user lookup.
type AuthService interface {
	// SignUp creates a new account with a zero starting balance
	SignUp(ctx context.Context, name, email, password string) (*models.User, error)

	// LogIn verifies credentials and returns a signed session token
	LogIn(ctx context.Context, email, password string) (string, *models.User, error)

	// LogOut emits the session-change notification for a signed-out identity
	LogOut(ctx context.Context, userID int64, email string)

	// GetUser retrieves a user by ID, nil if not found
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	PendingUpdateRepository() PendingUpdateRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
