// Package remote contains the client-side contract for the hosted stores
// the agent syncs with.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the DocumentStore interface)
//     for the document tier: per-document merge upserts, gets, ordered
//     owner queries, deletes, plus catalog and principal reads.
//  2. A concrete SurrealDB implementation (see SurrealStore) speaking
//     parameterized SurrealQL over a websocket connection.
//
// Documents on the remote side are schemaless; upserts use merge
// semantics, so fields this agent does not know about survive a write
// untouched.
//
// # Error Handling
//
// Any returned error means the remote tier is unusable for that call and
// callers fall back (queue the write, serve the local cache). A missing
// document is common.ErrNotFound.
package remote

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
)

type DocumentStore interface {
	Close() error
	Ping(ctx context.Context) error

	// PutReport merge-upserts a report document by id. Idempotent.
	PutReport(ctx context.Context, r *models.Report) error
	// GetReport returns one report or common.ErrNotFound.
	GetReport(ctx context.Context, id string) (*models.Report, error)
	// QueryReports returns reports ordered by updated_at descending.
	// An empty ownerID means no owner filter (admin scope).
	QueryReports(ctx context.Context, ownerID string) ([]*models.Report, error)
	DeleteReport(ctx context.Context, id string) error

	// ListSites returns the whole sites catalog.
	ListSites(ctx context.Context) ([]models.Site, error)

	// GetPrincipal returns the user profile for a session principal.
	GetPrincipal(ctx context.Context, uid string) (*models.UserProfile, error)

	// PutArtifact stores a generated-report companion document.
	PutArtifact(ctx context.Context, a *models.GeneratedReport) error
}
