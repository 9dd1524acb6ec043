package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/surveysync/internal/agent/assets"
	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/syncqueue"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/dmitrijs2005/surveysync/internal/netx"
)

// SyncService drains the pending-mutation queue against the remote store.
// The in-flight guard is owned by the instance, so independent engines
// (e.g. under test) never share state.
type SyncService struct {
	queue  syncqueue.Repository
	docs   remote.DocumentStore
	assets *assets.Pipeline
	probe  netx.Probe
	log    logging.Logger

	syncing atomic.Bool
}

func NewSyncService(queue syncqueue.Repository, docs remote.DocumentStore,
	assets *assets.Pipeline, probe netx.Probe, log logging.Logger) *SyncService {
	return &SyncService{queue: queue, docs: docs, assets: assets, probe: probe, log: log}
}

// Syncing reports whether a drain cycle is in flight.
func (s *SyncService) Syncing() bool {
	return s.syncing.Load()
}

// Pending returns the number of queued-but-unsynced mutations.
func (s *SyncService) Pending(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}

// Drain runs one sync cycle: read the whole queue FIFO and apply each
// entry against the remote store, deleting entries as they succeed. A
// failing entry stays queued for the next cycle and never blocks later
// ones. At most one drain runs at a time; a concurrent call is a no-op.
//
// An entry's remote write and its queue deletion are two separate effects.
// A crash between them leaves a duplicate remote write on the next drain,
// which is harmless because remote upserts are idempotent by record id.
func (s *SyncService) Drain(ctx context.Context) error {
	if !s.syncing.CompareAndSwap(false, true) {
		s.log.Info(ctx, "sync already in progress")
		return nil
	}
	defer s.syncing.Store(false)

	if !s.probe.IsOnline() {
		return nil
	}

	items, err := s.queue.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	s.log.Info(ctx, "starting sync", "pending", len(items))

	for _, item := range items {
		if err := s.apply(ctx, &item); err != nil {
			if errors.Is(err, common.ErrMalformedQueueEntry) {
				s.log.Warn(ctx, "dropping unrecoverable queue entry",
					"id", item.ID, "report_id", item.ReportID, "error", err)
				if err := s.queue.DeleteByID(ctx, item.ID); err != nil {
					s.log.Error(ctx, "failed to drop queue entry", "id", item.ID, "error", err)
				}
				continue
			}
			s.log.Error(ctx, "failed to sync queue entry, will retry",
				"id", item.ID, "report_id", item.ReportID, "error", err)
			continue
		}

		if err := s.queue.DeleteByID(ctx, item.ID); err != nil {
			s.log.Error(ctx, "failed to delete synced queue entry", "id", item.ID, "error", err)
		} else {
			s.log.Info(ctx, "synced queue entry", "id", item.ID, "report_id", item.ReportID)
		}
	}

	return nil
}

func (s *SyncService) apply(ctx context.Context, item *models.SyncItem) error {
	switch item.Action {
	case models.ActionCreate, models.ActionUpdate:
		if item.Payload == nil {
			return fmt.Errorf("%w: missing payload for %s", common.ErrMalformedQueueEntry, item.Action)
		}
		externalized, err := s.assets.Externalize(ctx, item.Payload)
		if err != nil {
			return err
		}
		return s.docs.PutReport(ctx, externalized)
	case models.ActionDelete:
		return s.docs.DeleteReport(ctx, item.ReportID)
	default:
		return fmt.Errorf("%w: unknown action %q", common.ErrMalformedQueueEntry, item.Action)
	}
}

// Run keeps the queue draining until ctx is cancelled: once on every
// regained-connectivity signal and periodically while online.
func (s *SyncService) Run(ctx context.Context, interval time.Duration) {
	s.probe.OnRegainConnectivity(func() {
		if err := s.Drain(ctx); err != nil {
			s.log.Error(ctx, "sync after reconnect failed", "error", err)
		}
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.probe.IsOnline() {
				continue
			}
			if err := s.Drain(ctx); err != nil {
				s.log.Error(ctx, "periodic sync failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
