package services

import (
	"context"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/principals"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/dmitrijs2005/surveysync/internal/netx"
)

// SessionService resolves the authenticated principal's profile: fetched
// from the remote store at session start and mirrored locally, so later
// offline sessions can still read it. The mirror is never written back.
type SessionService struct {
	docs       remote.DocumentStore
	principals principals.Repository
	probe      netx.Probe
	log        logging.Logger
}

func NewSessionService(docs remote.DocumentStore, repo principals.Repository,
	probe netx.Probe, log logging.Logger) *SessionService {
	return &SessionService{docs: docs, principals: repo, probe: probe, log: log}
}

// StartSession returns the principal's profile, remote-first. A failed
// local mirror write is logged, not surfaced. Offline, the cached profile
// is served; common.ErrNotFound means this device has never seen the
// principal online.
func (s *SessionService) StartSession(ctx context.Context, uid string) (*models.UserProfile, error) {
	if s.probe.IsOnline() {
		profile, err := s.docs.GetPrincipal(ctx, uid)
		if err == nil {
			if err := s.principals.Put(ctx, profile); err != nil {
				s.log.Warn(ctx, "failed to cache session profile", "uid", uid, "error", err)
			}
			return profile, nil
		}
		s.log.Warn(ctx, "remote profile fetch failed, falling back to local cache",
			"uid", uid, "error", err)
	}

	return s.principals.GetByID(ctx, uid)
}
