package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveysync/internal/agent/assets"
	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/reports"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/syncqueue"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/dmitrijs2005/surveysync/internal/netx"
)

// ReportService is the single entry point collaborators use for survey
// reports. Writes land in the local store unconditionally (self-contained
// form) and reach the remote best-effort, with the mutation queue as
// fallback; reads prefer the remote and fall back to the local cache.
type ReportService struct {
	local  reports.Repository
	queue  syncqueue.Repository
	docs   remote.DocumentStore
	assets *assets.Pipeline
	probe  netx.Probe
	log    logging.Logger
}

func NewReportService(local reports.Repository, queue syncqueue.Repository,
	docs remote.DocumentStore, assets *assets.Pipeline, probe netx.Probe,
	log logging.Logger) *ReportService {
	return &ReportService{local: local, queue: queue, docs: docs, assets: assets, probe: probe, log: log}
}

// Save persists the report locally, then attempts the remote write if
// connectivity is known, queuing an update with the original
// (pre-externalization) payload on any remote failure. Only the local
// write can fail the call: that is the last resort with nothing to fall
// back to.
func (s *ReportService) Save(ctx context.Context, r *models.Report) error {
	if err := s.local.Save(ctx, r); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if !s.probe.IsOnline() {
		return s.enqueue(ctx, r, models.ActionUpdate)
	}

	externalized, err := s.assets.Externalize(ctx, r)
	if err == nil {
		err = s.docs.PutReport(ctx, externalized)
	}
	if err != nil {
		s.log.Warn(ctx, "remote save failed, queuing for sync", "report_id", r.ID, "error", err)
		return s.enqueue(ctx, r, models.ActionUpdate)
	}
	return nil
}

// GetByID prefers the remote store, internalizing images and mirroring
// the result into the local cache as a detached best-effort write. On any
// remote failure, or offline, it serves the local cache (which may be
// common.ErrNotFound if the report was never cached).
func (s *ReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	if s.probe.IsOnline() {
		r, err := s.docs.GetReport(ctx, id)
		if err == nil {
			cached := s.assets.Internalize(ctx, r)
			s.mirror(ctx, cached)
			return cached, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "remote read failed, falling back to local cache",
				"report_id", id, "error", err)
		}
	}

	return s.local.GetByID(ctx, id)
}

// GetByOwner returns the owner's reports ordered by updated_at
// descending. Online the ordering comes from the remote query; offline
// from the local cache. Both paths honor the same contract.
func (s *ReportService) GetByOwner(ctx context.Context, ownerID string) ([]*models.Report, error) {
	return s.list(ctx, ownerID)
}

// GetAll is the admin-scope variant of GetByOwner with no owner filter.
func (s *ReportService) GetAll(ctx context.Context) ([]*models.Report, error) {
	return s.list(ctx, "")
}

func (s *ReportService) list(ctx context.Context, ownerID string) ([]*models.Report, error) {
	if s.probe.IsOnline() {
		result, err := s.docs.QueryReports(ctx, ownerID)
		if err == nil {
			// Mirror each report with inline images so list entries stay
			// viewable offline. The returned set keeps the remote
			// (reference) representation.
			for _, r := range result {
				s.mirror(ctx, s.assets.Internalize(ctx, r))
			}
			return result, nil
		}
		s.log.Warn(ctx, "remote query failed, falling back to local cache",
			"owner_id", ownerID, "error", err)
	}

	if ownerID == "" {
		return s.local.GetAll(ctx)
	}
	return s.local.GetByOwner(ctx, ownerID)
}

// TransitionStatus sets the new status, bumps updated_at and delegates to
// Save. Legal-transition policy deliberately lives with the caller, not
// here; see the package tests for the documented consequence.
func (s *ReportService) TransitionStatus(ctx context.Context, r *models.Report, status models.Status) (*models.Report, error) {
	updated := r.Clone()
	updated.Status = status
	updated.Touch()

	if err := s.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the report locally and remotely, queuing a delete
// mutation when the remote is not reachable.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.local.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if !s.probe.IsOnline() {
		return s.enqueueDelete(ctx, id)
	}

	if err := s.docs.DeleteReport(ctx, id); err != nil {
		s.log.Warn(ctx, "remote delete failed, queuing for sync", "report_id", id, "error", err)
		return s.enqueueDelete(ctx, id)
	}
	return nil
}

func (s *ReportService) enqueue(ctx context.Context, r *models.Report, action models.SyncAction) error {
	item := &models.SyncItem{
		ReportID:   r.ID,
		Action:     action,
		Payload:    r.Clone(),
		EnqueuedAt: time.Now().UnixMilli(),
	}
	if _, err := s.queue.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *ReportService) enqueueDelete(ctx context.Context, id string) error {
	item := &models.SyncItem{
		ReportID:   id,
		Action:     models.ActionDelete,
		EnqueuedAt: time.Now().UnixMilli(),
	}
	if _, err := s.queue.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

// mirror populates the local cache from a remote read without blocking
// the caller. Failure is logged, never surfaced: this is a best-effort
// side channel, and a briefly stale cache is an accepted consistency gap.
func (s *ReportService) mirror(ctx context.Context, r *models.Report) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.local.Save(bg, r); err != nil {
			s.log.Warn(bg, "best-effort cache population failed", "report_id", r.ID, "error", err)
		}
	}()
}
