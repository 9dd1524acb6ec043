// Package agent wires the offline-first sync core together: local store,
// remote document store, blob store, connectivity probe and the services
// on top of them.
package agent

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/assets"
	"github.com/dmitrijs2005/surveysync/internal/agent/blob"
	"github.com/dmitrijs2005/surveysync/internal/agent/config"
	"github.com/dmitrijs2005/surveysync/internal/agent/localdb"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/agent/services"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/dmitrijs2005/surveysync/internal/netx"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	repos  *localdb.Repositories
	docs   remote.DocumentStore
	probe  *netx.PingProbe
	log    logging.Logger

	Reports   *services.ReportService
	Sync      *services.SyncService
	Sites     *services.SiteService
	Session   *services.SessionService
	Artifacts *services.ArtifactService
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := localdb.InitDatabase(ctx, c.DatabasePath, log)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	docs := remote.NewLazyStore(remote.Config{
		URL:       c.RemoteURL,
		Namespace: c.RemoteNamespace,
		Database:  c.RemoteDatabase,
		Username:  c.RemoteUser,
		Password:  c.RemotePassword,
	})

	var blobs blob.Store
	if c.S3Bucket != "" {
		blobs, err = blob.NewS3Store(ctx, blob.S3Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			PathStyle:       c.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn(ctx, "no blob bucket configured, using in-memory asset store")
		blobs = blob.NewMemoryStore()
	}

	probe := netx.NewPingProbe(docs, c.OnlineCheckInterval, log)
	pipeline := assets.NewPipeline(blobs, log)

	sync := services.NewSyncService(repos.Queue, docs, pipeline, probe, log)
	reports := services.NewReportService(repos.Reports, repos.Queue, docs, pipeline, probe, log)
	sites := services.NewSiteService(docs, repos.Sites, repos.Regions, probe, log)
	session := services.NewSessionService(docs, repos.Principals, probe, log)
	artifacts := services.NewArtifactService(docs, reports, log)

	return &App{
		config:    c,
		repos:     repos,
		docs:      docs,
		probe:     probe,
		log:       log,
		Reports:   reports,
		Sync:      sync,
		Sites:     sites,
		Session:   session,
		Artifacts: artifacts,
	}, nil
}

// Probe exposes the connectivity probe (e.g. for an online indicator).
func (a *App) Probe() netx.Probe {
	return a.probe
}

// Run starts the connectivity watcher and the sync engine and blocks
// until ctx is cancelled. Regaining connectivity also refreshes the
// sites catalog so reference data stays current.
func (a *App) Run(ctx context.Context) error {
	a.probe.OnRegainConnectivity(func() {
		if _, err := a.Sites.Refresh(ctx); err != nil {
			a.log.Warn(ctx, "catalog refresh after reconnect failed", "error", err)
		}
	})

	go a.probe.Watch(ctx, a.config.OnlineCheckInterval)
	go a.Sync.Run(ctx, a.config.SyncInterval)

	<-ctx.Done()
	return a.Close()
}

func (a *App) Close() error {
	_ = a.docs.Close()
	return a.repos.DB.Close()
}
