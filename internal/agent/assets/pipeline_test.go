package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dmitrijs2005/surveysync/internal/agent/blob"
	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataURL(mediaType, payload string) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestPipeline_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore()
	p := NewPipeline(store, logging.NewNop())

	r := models.NewReport("worker-1", "grupo-a")
	r.ID = "r1"
	r.MapImageURL = dataURL("image/png", "map-bytes")
	r.CameraViewPhotoURL = dataURL("image/jpeg", "camera-bytes")

	ext, err := p.Externalize(ctx, r)
	require.NoError(t, err)

	// The input report is untouched; the copy carries references.
	assert.True(t, IsDataURL(r.MapImageURL))
	assert.False(t, IsDataURL(ext.MapImageURL))
	assert.False(t, IsDataURL(ext.CameraViewPhotoURL))
	assert.Equal(t, 2, store.Len())

	// Untouched fields stay empty.
	assert.Empty(t, ext.EditedMapImageURL)
	assert.Empty(t, ext.ServiceEntrancePhotoURL)

	back := p.Internalize(ctx, ext)
	assert.Equal(t, r.MapImageURL, back.MapImageURL)
	assert.Equal(t, r.CameraViewPhotoURL, back.CameraViewPhotoURL)
}

func TestPipeline_ExternalizeSkipsReferences(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore()
	p := NewPipeline(store, logging.NewNop())

	r := models.NewReport("worker-1", "grupo-a")
	r.MapImageURL = "https://blobs.example.com/reports/r1/map_image_url.png"

	ext, err := p.Externalize(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, r.MapImageURL, ext.MapImageURL)
	assert.Equal(t, 0, store.Len())
}

func TestPipeline_ExternalizeKeyIsDeterministic(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore()
	p := NewPipeline(store, logging.NewNop())

	r := models.NewReport("worker-1", "grupo-a")
	r.ID = "r1"
	r.MapImageURL = dataURL("image/png", "first")

	_, err := p.Externalize(ctx, r)
	require.NoError(t, err)

	r.MapImageURL = dataURL("image/png", "second")
	ext, err := p.Externalize(ctx, r)
	require.NoError(t, err)

	// Same report and field means same key: the object is overwritten.
	assert.Equal(t, 1, store.Len())

	data, mediaType, err := store.Fetch(ctx, ext.MapImageURL)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "image/png", mediaType)
}

func TestPipeline_ExternalizeUploadFailureAborts(t *testing.T) {
	ctx := context.Background()
	p := NewPipeline(&failingStore{}, logging.NewNop())

	r := models.NewReport("worker-1", "grupo-a")
	r.MapImageURL = dataURL("image/png", "map-bytes")

	_, err := p.Externalize(ctx, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map_image_url")
}

func TestPipeline_InternalizeFetchFailureKeepsReference(t *testing.T) {
	ctx := context.Background()
	p := NewPipeline(&failingStore{}, logging.NewNop())

	ref := "https://blobs.example.com/reports/r1/map_image_url.png"
	r := models.NewReport("worker-1", "grupo-a")
	r.MapImageURL = ref

	got := p.Internalize(ctx, r)
	assert.Equal(t, ref, got.MapImageURL)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "reports/r1/map_image_url.png", objectKey("r1", "map_image_url", "image/png"))
	assert.Equal(t, "reports/r1/camera_view_photo_url.jpeg", objectKey("r1", "camera_view_photo_url", "image/jpeg"))
	// Non-image media types fall back to jpg.
	assert.Equal(t, "reports/r1/map_image_url.jpg", objectKey("r1", "map_image_url", "application/octet-stream"))
}

type failingStore struct{}

func (f *failingStore) Upload(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (f *failingStore) Fetch(context.Context, string) ([]byte, string, error) {
	return nil, "", errors.New("bucket unavailable")
}
