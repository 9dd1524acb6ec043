package reports

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
)

// Repository describes the local reports partition. Implementations are
// backed by the agent's SQLite database and always store the
// self-contained (inline images) form of a report.
type Repository interface {
	// Save upserts a report by id.
	Save(ctx context.Context, r *models.Report) error

	// GetByID returns one report or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Report, error)

	// GetByOwner returns the owner's reports ordered by updated_at
	// descending, matching the remote query's ordering contract.
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Report, error)

	// GetAll returns every cached report ordered by updated_at descending.
	GetAll(ctx context.Context) ([]*models.Report, error)

	// DeleteByID removes a report from the cache. Deleting a missing id is
	// not an error.
	DeleteByID(ctx context.Context, id string) error
}
