package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/regions"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/sites"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type siteFixture struct {
	svc     *SiteService
	sites   sites.Repository
	regions regions.Repository
	docs    *fakeDocStore
	probe   *fakeProbe
}

func newSiteFixture(t *testing.T, online bool) *siteFixture {
	t.Helper()
	db := setupDB(t)

	f := &siteFixture{
		sites:   sites.NewSQLiteRepository(db),
		regions: regions.NewSQLiteRepository(db),
		docs:    newFakeDocStore(),
		probe:   &fakeProbe{online: online},
	}
	f.svc = NewSiteService(f.docs, f.sites, f.regions, f.probe, logging.NewNop())
	return f
}

func site(id, distrito, municipio string) models.Site {
	return models.Site{ID: id, Distrito: distrito, Municipio: municipio, Name: "PM-" + id}
}

func TestSiteService_RefreshReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	f := newSiteFixture(t, true)

	stale := []models.Site{
		site("s1", "Panamá", "San Miguelito"),
		site("s2", "Panamá", "Las Cumbres"),
		site("s3", "Colón", "Colón"),
		site("s4", "Colón", "Sabanitas"),
		site("s5", "Chiriquí", "David"),
	}
	require.NoError(t, f.sites.ReplaceAll(ctx, stale))

	f.docs.sites = []models.Site{
		site("n1", "Panamá", "San Miguelito"),
		site("n2", "Coclé", "Penonomé"),
		site("n3", "Coclé", "Aguadulce"),
	}

	got, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// None of the five stale entries survive the replace.
	cached, err := f.sites.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 3)
	for _, s := range cached {
		assert.NotContains(t, []string{"s1", "s2", "s3", "s4", "s5"}, s.ID)
	}

	districts, err := f.svc.Districts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coclé", "Panamá"}, districts)
}

func TestSiteService_RefreshRemoteFailureKeepsMirror(t *testing.T) {
	ctx := context.Background()
	f := newSiteFixture(t, true)

	require.NoError(t, f.sites.ReplaceAll(ctx, []models.Site{site("s1", "Panamá", "San Miguelito")}))
	f.docs.listErr = errors.New("timeout")

	_, err := f.svc.Refresh(ctx)
	require.Error(t, err)

	cached, err := f.sites.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestSiteService_ListOfflineServesMirror(t *testing.T) {
	ctx := context.Background()
	f := newSiteFixture(t, false)

	require.NoError(t, f.sites.ReplaceAll(ctx, []models.Site{site("s1", "Panamá", "San Miguelito")}))
	f.docs.sites = []models.Site{site("n1", "Coclé", "Penonomé")}

	got, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestSiteService_MunicipiosFor(t *testing.T) {
	ctx := context.Background()
	f := newSiteFixture(t, true)

	f.docs.sites = []models.Site{
		site("n1", "Panamá", "San Miguelito"),
		site("n2", "Panamá", "Las Cumbres"),
		site("n3", "Coclé", "Penonomé"),
	}
	_, err := f.svc.Refresh(ctx)
	require.NoError(t, err)

	got, err := f.svc.MunicipiosFor(ctx, "Panamá")
	require.NoError(t, err)
	assert.Equal(t, []string{"Las Cumbres", "San Miguelito"}, got)

	// Empty distrito means every municipio.
	all, err := f.svc.MunicipiosFor(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Las Cumbres", "Penonomé", "San Miguelito"}, all)
}

func TestBuildRegionMapping(t *testing.T) {
	catalog := []models.Site{
		site("1", "Panamá", "San Miguelito"),
		site("2", "Panamá", "San Miguelito"),
		site("3", "Panamá", "Las Cumbres"),
		site("4", "Colón", "Sabanitas"),
		site("5", "", "Huérfano"),
		site("6", "Sin Municipio", ""),
	}

	mapping := BuildRegionMapping(catalog)

	assert.Equal(t, []string{"Las Cumbres", "San Miguelito"}, mapping["Panamá"])
	assert.Equal(t, []string{"Sabanitas"}, mapping["Colón"])
	assert.Equal(t, []string{"Las Cumbres", "Sabanitas", "San Miguelito"}, mapping[""])
	// Sites missing either side are skipped entirely.
	assert.NotContains(t, mapping, "Sin Municipio")
	assert.NotContains(t, mapping[""], "Huérfano")
}
