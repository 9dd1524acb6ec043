package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE reports (
  id         TEXT PRIMARY KEY,
  owner_id   TEXT NOT NULL,
  status     TEXT NOT NULL,
  updated_at INTEGER NOT NULL,
  data       BLOB NOT NULL
);

CREATE TABLE sites (
  id        TEXT PRIMARY KEY,
  distrito  TEXT NOT NULL DEFAULT '',
  municipio TEXT NOT NULL DEFAULT '',
  data      BLOB NOT NULL
);

CREATE TABLE sync_queue (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  report_id   TEXT NOT NULL,
  action      TEXT NOT NULL,
  payload     BLOB,
  enqueued_at INTEGER NOT NULL
);

CREATE TABLE principals (
  uid  TEXT PRIMARY KEY,
  data BLOB NOT NULL
);

CREATE TABLE region_mapping (
  distrito   TEXT PRIMARY KEY,
  municipios TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

// fakeDocStore is an in-memory remote.DocumentStore with failure
// injection hooks.
type fakeDocStore struct {
	mu        sync.Mutex
	reports   map[string]*models.Report
	artifacts map[string]*models.GeneratedReport
	sites     []models.Site
	profiles  map[string]*models.UserProfile

	putErr    func(id string) error
	getErr    error
	queryErr  error
	deleteErr func(id string) error
	listErr   error

	// blockPut, when non-nil, makes PutReport wait until the channel is
	// closed. Used to hold a drain cycle in flight.
	blockPut chan struct{}

	putCalls []string
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		reports:   map[string]*models.Report{},
		artifacts: map[string]*models.GeneratedReport{},
		profiles:  map[string]*models.UserProfile{},
	}
}

func (f *fakeDocStore) Close() error               { return nil }
func (f *fakeDocStore) Ping(context.Context) error { return nil }

func (f *fakeDocStore) PutReport(ctx context.Context, r *models.Report) error {
	f.mu.Lock()
	block := f.blockPut
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls = append(f.putCalls, r.ID)
	if f.putErr != nil {
		if err := f.putErr(r.ID); err != nil {
			return err
		}
	}
	f.reports[r.ID] = r.Clone()
	return nil
}

func (f *fakeDocStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.Clone(), nil
}

func (f *fakeDocStore) QueryReports(ctx context.Context, ownerID string) ([]*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []*models.Report
	for _, r := range f.reports {
		if ownerID == "" || r.UserID == ownerID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out, nil
}

func (f *fakeDocStore) DeleteReport(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		if err := f.deleteErr(id); err != nil {
			return err
		}
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeDocStore) ListSites(ctx context.Context) ([]models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Site(nil), f.sites...), nil
}

func (f *fakeDocStore) GetPrincipal(ctx context.Context, uid string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeDocStore) PutArtifact(ctx context.Context, a *models.GeneratedReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.artifacts[a.ID] = &cp
	return nil
}

func (f *fakeDocStore) reportCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

// fakeProbe is a settable connectivity probe.
type fakeProbe struct {
	mu        sync.Mutex
	online    bool
	callbacks []func()
}

func (p *fakeProbe) IsOnline() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *fakeProbe) OnRegainConnectivity(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

func (p *fakeProbe) setOnline(online bool) {
	p.mu.Lock()
	was := p.online
	p.online = online
	callbacks := append([]func(){}, p.callbacks...)
	p.mu.Unlock()

	if !was && online {
		for _, fn := range callbacks {
			fn()
		}
	}
}
