package regions

import "context"

// Repository describes the region-mapping partition: distrito name mapped
// to its sorted municipios. The empty-string key holds every municipio
// across all districts. Derived wholesale from the sites catalog on each
// refresh.
type Repository interface {
	ReplaceAll(ctx context.Context, mapping map[string][]string) error

	// Get returns the municipios for one distrito, or common.ErrNotFound.
	Get(ctx context.Context, distrito string) ([]string, error)

	// Districts lists every known distrito sorted, excluding the global
	// "" key.
	Districts(ctx context.Context) ([]string, error)
}
