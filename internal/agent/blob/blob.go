// Package blob abstracts the binary-asset tier: image bytes live in an
// object store and documents only carry reference URLs to them.
package blob

import "context"

// Store is the minimal surface the asset pipeline needs.
type Store interface {
	// Upload writes data at key, overwriting any previous object, and
	// returns a reference URL that Fetch (and a browser) can resolve.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Fetch resolves a reference URL back to the stored bytes and their
	// content type.
	Fetch(ctx context.Context, ref string) ([]byte, string, error)
}
