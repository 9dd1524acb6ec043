package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/google/uuid"
)

// ArtifactService records PDF generation: finalizing a report writes a
// companion generated-report document and moves the report to its
// terminal status. The report itself is never deleted, only linked.
type ArtifactService struct {
	docs    remote.DocumentStore
	reports *ReportService
	log     logging.Logger
}

func NewArtifactService(docs remote.DocumentStore, reports *ReportService, log logging.Logger) *ArtifactService {
	return &ArtifactService{docs: docs, reports: reports, log: log}
}

// Finalize links the rendered PDF to the report and transitions it to
// generado. This is an admin action that requires the remote store: the
// artifact document is written first, then the report update follows the
// usual dual-write path.
func (s *ArtifactService) Finalize(ctx context.Context, r *models.Report, pdfURL, generatedBy string) (*models.Report, *models.GeneratedReport, error) {
	artifact := &models.GeneratedReport{
		ID:          uuid.NewString(),
		ReportID:    r.ID,
		PDFURL:      pdfURL,
		GeneratedAt: time.Now().UnixMilli(),
		GeneratedBy: generatedBy,
	}

	if err := s.docs.PutArtifact(ctx, artifact); err != nil {
		return nil, nil, fmt.Errorf("failed to store generated artifact: %w", err)
	}

	linked := r.Clone()
	linked.PDFURL = pdfURL

	updated, err := s.reports.TransitionStatus(ctx, linked, models.StatusGenerado)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "report finalized", "report_id", r.ID, "artifact_id", artifact.ID)
	return updated, artifact, nil
}
