package repository

import (
	"context"
	"fmt"

	"payouts/database"
	"payouts/models"

	"github.com/jackc/pgx/v5"
)

// PendingUpdateRepository provides access to pending balance update records
type PendingUpdateRepository struct {
	q queryable
}

// NewPendingUpdateRepository creates a new pending update repository
func NewPendingUpdateRepository(db *database.DB) *PendingUpdateRepository {
	return &PendingUpdateRepository{q: db.Pool}
}

// newPendingUpdateRepositoryWithTx creates a new pending update repository with a transaction
func newPendingUpdateRepositoryWithTx(tx queryable) *PendingUpdateRepository {
	return &PendingUpdateRepository{q: tx}
}

// Create creates a new pending update and fills in its ID and timestamp
func (r *PendingUpdateRepository) Create(ctx context.Context, update *models.PendingUpdate) error {
	query := `
		INSERT INTO pending_updates (user_id, name, new_balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, update.UserID, update.Name, update.NewBalance).Scan(
		&update.ID,
		&update.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create pending update for user %d: %w", update.UserID, err)
	}

	return nil
}

// GetByID retrieves a pending update by its ID
func (r *PendingUpdateRepository) GetByID(ctx context.Context, id int64) (*models.PendingUpdate, error) {
	query := `
		SELECT id, user_id, name, new_balance, created_at
		FROM pending_updates
		WHERE id = $1
	`

	var update models.PendingUpdate
	err := r.q.QueryRow(ctx, query, id).Scan(
		&update.ID,
		&update.UserID,
		&update.Name,
		&update.NewBalance,
		&update.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending update %d: %w", id, err)
	}

	return &update, nil
}

// GetAll returns all pending updates, oldest first
func (r *PendingUpdateRepository) GetAll(ctx context.Context) ([]*models.PendingUpdate, error) {
	query := `
		SELECT id, user_id, name, new_balance, created_at
		FROM pending_updates
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending updates: %w", err)
	}
	defer rows.Close()

	var updates []*models.PendingUpdate
	for rows.Next() {
		var update models.PendingUpdate
		err := rows.Scan(
			&update.ID,
			&update.UserID,
			&update.Name,
			&update.NewBalance,
			&update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending update: %w", err)
		}
		updates = append(updates, &update)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending updates: %w", err)
	}

	return updates, nil
}

// Delete removes a pending update. It reports whether a row was
// actually deleted, which lets the caller treat the delete as a
// conditional claim on the update: of two concurrent approvals only
// one observes deleted == true.
func (r *PendingUpdateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM pending_updates
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending update %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
