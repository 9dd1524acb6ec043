package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/common"
)

// LazyStore defers the SurrealDB connection until the first call and
// redials after a failed ping. The agent has to boot with no connectivity
// at all: the remote tier simply reports unreachable until a dial
// succeeds, and every caller already knows how to fall back.
type LazyStore struct {
	cfg Config

	mu    sync.Mutex
	store *SurrealStore
}

func NewLazyStore(cfg Config) *LazyStore {
	return &LazyStore{cfg: cfg}
}

func (l *LazyStore) ensure() (*SurrealStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		return l.store, nil
	}

	store, err := NewSurrealStore(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnreachable, err)
	}
	l.store = store
	return store, nil
}

func (l *LazyStore) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		_ = l.store.Close()
		l.store = nil
	}
}

func (l *LazyStore) Close() error {
	l.reset()
	return nil
}

// Ping also drops a dead connection so the next call redials.
func (l *LazyStore) Ping(ctx context.Context) error {
	store, err := l.ensure()
	if err != nil {
		return err
	}
	if err := store.Ping(ctx); err != nil {
		l.reset()
		return err
	}
	return nil
}

func (l *LazyStore) PutReport(ctx context.Context, r *models.Report) error {
	store, err := l.ensure()
	if err != nil {
		return err
	}
	return store.PutReport(ctx, r)
}

func (l *LazyStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	store, err := l.ensure()
	if err != nil {
		return nil, err
	}
	return store.GetReport(ctx, id)
}

func (l *LazyStore) QueryReports(ctx context.Context, ownerID string) ([]*models.Report, error) {
	store, err := l.ensure()
	if err != nil {
		return nil, err
	}
	return store.QueryReports(ctx, ownerID)
}

func (l *LazyStore) DeleteReport(ctx context.Context, id string) error {
	store, err := l.ensure()
	if err != nil {
		return err
	}
	return store.DeleteReport(ctx, id)
}

func (l *LazyStore) ListSites(ctx context.Context) ([]models.Site, error) {
	store, err := l.ensure()
	if err != nil {
		return nil, err
	}
	return store.ListSites(ctx)
}

func (l *LazyStore) GetPrincipal(ctx context.Context, uid string) (*models.UserProfile, error) {
	store, err := l.ensure()
	if err != nil {
		return nil, err
	}
	return store.GetPrincipal(ctx, uid)
}

func (l *LazyStore) PutArtifact(ctx context.Context, a *models.GeneratedReport) error {
	store, err := l.ensure()
	if err != nil {
		return err
	}
	return store.PutArtifact(ctx, a)
}
