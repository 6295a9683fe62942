package service

import (
	"context"
	"fmt"

	"payouts/events"
	"payouts/models"

	log "github.com/sirupsen/logrus"
)

// leaderboardService implements the LeaderboardService interface
type leaderboardService struct {
	uowFactory UnitOfWorkFactory
	policy     *ModeratorPolicy
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(uowFactory UnitOfWorkFactory, policy *ModeratorPolicy) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Leaderboard returns users ordered by balance descending. Store
// failures are logged and degrade to an empty leaderboard rather than
// an error, so the board renders empty instead of failing outright.
func (s *leaderboardService) Leaderboard(ctx context.Context) []*models.User {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("Failed to begin leaderboard transaction")
		return []*models.User{}
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetLeaderboard(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch leaderboard")
		return []*models.User{}
	}

	if users == nil {
		users = []*models.User{}
	}
	return users
}

// SubmitUpdate records a balance change request for the given user. The
// display name is copied from the user row at submission time. Multiple
// open requests per user are allowed.
func (s *leaderboardService) SubmitUpdate(ctx context.Context, userID int64, newBalance models.Cents) (*models.PendingUpdate, error) {
	if newBalance < 0 {
		return nil, newValidationError("newBalance", "must not be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	update := &models.PendingUpdate{
		UserID:     user.ID,
		Name:       user.Name,
		NewBalance: newBalance,
	}

	if err := uow.PendingUpdateRepository().Create(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to create pending update: %w", err)
	}

	uow.EventBus().Publish(events.UpdateRequestedEvent{
		UpdateID:   update.ID,
		UserID:     update.UserID,
		Name:       update.Name,
		NewBalance: update.NewBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return update, nil
}

// PendingUpdates returns all open requests. Every moderator sees every
// request; there is no per-moderator assignment.
func (s *leaderboardService) PendingUpdates(ctx context.Context, callerEmail string) ([]*models.PendingUpdate, error) {
	if !s.policy.IsModerator(callerEmail) {
		return nil, ErrNotModerator
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	updates, err := uow.PendingUpdateRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending updates: %w", err)
	}

	return updates, nil
}

// ApproveUpdate applies a pending update to its user's balance and
// removes the request, all inside one transaction. The delete doubles
// as a claim on the update: when two moderators approve concurrently,
// exactly one delete succeeds and the other approval observes
// ErrUpdateNotFound instead of applying the change twice.
func (s *leaderboardService) ApproveUpdate(ctx context.Context, updateID int64, approverEmail string) (*models.User, error) {
	if !s.policy.IsModerator(approverEmail) {
		return nil, ErrNotModerator
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	update, err := uow.PendingUpdateRepository().GetByID(ctx, updateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending update: %w", err)
	}
	if update == nil {
		return nil, ErrUpdateNotFound
	}

	deleted, err := uow.PendingUpdateRepository().Delete(ctx, updateID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete pending update: %w", err)
	}
	if !deleted {
		return nil, ErrUpdateNotFound
	}

	// The user may have been deleted after the request was submitted;
	// rolling back leaves the dangling request in place.
	user, err := uow.UserRepository().GetByID(ctx, update.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldBalance := user.Balance
	if err := uow.UserRepository().UpdateBalance(ctx, user.ID, update.NewBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	user.Balance = update.NewBalance

	uow.EventBus().Publish(events.UpdateApprovedEvent{
		UpdateID:   update.ID,
		UserID:     user.ID,
		OldBalance: oldBalance,
		NewBalance: update.NewBalance,
		ApprovedBy: approverEmail,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// DismissUpdate discards a pending update without touching the user's
// balance. This is the only exit from the pending state besides approval.
func (s *leaderboardService) DismissUpdate(ctx context.Context, updateID int64, moderatorEmail string) error {
	if !s.policy.IsModerator(moderatorEmail) {
		return ErrNotModerator
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	update, err := uow.PendingUpdateRepository().GetByID(ctx, updateID)
	if err != nil {
		return fmt.Errorf("failed to get pending update: %w", err)
	}
	if update == nil {
		return ErrUpdateNotFound
	}

	deleted, err := uow.PendingUpdateRepository().Delete(ctx, updateID)
	if err != nil {
		return fmt.Errorf("failed to delete pending update: %w", err)
	}
	if !deleted {
		return ErrUpdateNotFound
	}

	uow.EventBus().Publish(events.UpdateDismissedEvent{
		UpdateID:    update.ID,
		UserID:      update.UserID,
		DismissedBy: moderatorEmail,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsModerator checks whether an email may review pending updates
func (s *leaderboardService) IsModerator(email string) bool {
	return s.policy.IsModerator(email)
}
