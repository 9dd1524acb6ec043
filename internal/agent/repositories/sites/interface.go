package sites

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
)

// Repository describes the local sites-catalog partition. The catalog is
// a read-mostly mirror: refreshes replace the whole set atomically, there
// is no per-entity CRUD from the field side.
type Repository interface {
	// GetAll returns every cached site. Callers sort when required.
	GetAll(ctx context.Context) ([]models.Site, error)

	// ReplaceAll clears the partition and inserts the given set inside a
	// single transaction.
	ReplaceAll(ctx context.Context, sites []models.Site) error
}
