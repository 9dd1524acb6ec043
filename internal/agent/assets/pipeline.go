// Package assets bridges the two image representations a report can carry:
// inline data URLs (local store, offline-viewable) and blob-store
// reference URLs (remote store, reference-only documents). Keeping the
// conversion at this boundary means no other component needs to know which
// representation it is looking at.
package assets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/surveysync/internal/agent/blob"
	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/logging"
)

type Pipeline struct {
	blobs blob.Store
	log   logging.Logger
}

func NewPipeline(blobs blob.Store, log logging.Logger) *Pipeline {
	return &Pipeline{blobs: blobs, log: log}
}

// Externalize returns a copy of the report with every inline image field
// uploaded to the blob store and replaced by its reference URL. The object
// key is derived from the report id and field name, so repeated
// externalization overwrites instead of accumulating. Must run before
// every remote document write.
func (p *Pipeline) Externalize(ctx context.Context, r *models.Report) (*models.Report, error) {
	out := r.Clone()
	for _, field := range out.ImageFields() {
		value := *field.Value
		if value == "" || !IsDataURL(value) {
			continue
		}

		mediaType, data, err := DecodeDataURL(value)
		if err != nil {
			return nil, fmt.Errorf("image field %s: %w", field.Name, err)
		}

		key := objectKey(out.ID, field.Name, mediaType)
		ref, err := p.blobs.Upload(ctx, key, data, mediaType)
		if err != nil {
			return nil, fmt.Errorf("failed to externalize %s: %w", field.Name, err)
		}
		*field.Value = ref
	}
	return out, nil
}

// Internalize returns a copy of the report with every blob reference
// fetched and re-encoded inline, so the cached copy is viewable offline.
// A failed fetch leaves the reference URL in place (online viewing still
// works) and is only logged. Must run after every remote read that will
// be mirrored locally.
func (p *Pipeline) Internalize(ctx context.Context, r *models.Report) *models.Report {
	out := r.Clone()
	for _, field := range out.ImageFields() {
		value := *field.Value
		if value == "" || IsDataURL(value) {
			continue
		}

		data, mediaType, err := p.blobs.Fetch(ctx, value)
		if err != nil {
			p.log.Warn(ctx, "failed to fetch report image, keeping reference",
				"report_id", out.ID, "field", field.Name, "error", err)
			continue
		}
		*field.Value = EncodeDataURL(mediaType, data)
	}
	return out
}

func objectKey(reportID, field, mediaType string) string {
	return fmt.Sprintf("reports/%s/%s.%s", reportID, field, extension(mediaType))
}
