package syncqueue

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
)

// Repository describes the pending-mutation queue. Entries are created
// when a remote write fails or is skipped offline, drained FIFO, and
// deleted only after the corresponding remote write succeeds.
type Repository interface {
	// Enqueue stores the item (its ID field is ignored) and returns the
	// auto-generated id.
	Enqueue(ctx context.Context, item *models.SyncItem) (int64, error)

	// GetAll returns the whole queue in enqueue order.
	GetAll(ctx context.Context) ([]models.SyncItem, error)

	// DeleteByID removes one entry after a successful drain.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of queued-but-unsynced entries, for a
	// "pending sync" indicator.
	Count(ctx context.Context) (int, error)
}
