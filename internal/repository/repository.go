package repository

import (
	"context"

	"github.com/Balamathankumar/store-front/internal/domain"
)

// SnapshotRepository defines the interface for cart snapshot persistence.
// Snapshots carry only the line items; aggregates are recomputed on load.
type SnapshotRepository interface {
	// Get retrieves the persisted line items for a session.
	Get(ctx context.Context, sessionID string) ([]domain.LineItem, error)

	// Save persists a session's line items, overwriting any existing snapshot.
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error

	// Delete removes a session's snapshot.
	Delete(ctx context.Context, sessionID string) error
}
