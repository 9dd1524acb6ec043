package principals

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
)

// Repository describes the session-principal partition: a read-only local
// mirror of the authenticated user's profile, keyed by uid. It is written
// from remote reads only and never synced back.
type Repository interface {
	Put(ctx context.Context, profile *models.UserProfile) error

	// GetByID returns the cached profile or common.ErrNotFound.
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
}
