package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/agent/remote"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/regions"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/sites"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/dmitrijs2005/surveysync/internal/netx"
)

// SiteService keeps the sites catalog and the derived distrito/municipio
// mapping mirrored for offline use. The mirror is replaced wholesale on
// each successful fetch.
type SiteService struct {
	docs    remote.DocumentStore
	sites   sites.Repository
	regions regions.Repository
	probe   netx.Probe
	log     logging.Logger
}

func NewSiteService(docs remote.DocumentStore, siteRepo sites.Repository,
	regionRepo regions.Repository, probe netx.Probe, log logging.Logger) *SiteService {
	return &SiteService{docs: docs, sites: siteRepo, regions: regionRepo, probe: probe, log: log}
}

// Refresh fetches the whole catalog and replaces the local mirror and the
// region mapping. Local-store failures here are soft: the fetched set is
// still returned, the stale mirror just stays in place.
func (s *SiteService) Refresh(ctx context.Context) ([]models.Site, error) {
	list, err := s.docs.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sites catalog: %w", err)
	}

	if err := s.sites.ReplaceAll(ctx, list); err != nil {
		s.log.Warn(ctx, "failed to cache sites catalog", "error", err)
	}
	if err := s.regions.ReplaceAll(ctx, BuildRegionMapping(list)); err != nil {
		s.log.Warn(ctx, "failed to cache region mapping", "error", err)
	}

	return list, nil
}

// List returns the catalog, refreshing it first when online.
func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	if s.probe.IsOnline() {
		list, err := s.Refresh(ctx)
		if err == nil {
			return list, nil
		}
		s.log.Warn(ctx, "catalog refresh failed, serving local mirror", "error", err)
	}
	return s.sites.GetAll(ctx)
}

// Districts lists every known distrito sorted.
func (s *SiteService) Districts(ctx context.Context) ([]string, error) {
	return s.regions.Districts(ctx)
}

// MunicipiosFor returns the sorted municipios of one distrito. The empty
// distrito returns all municipios across districts.
func (s *SiteService) MunicipiosFor(ctx context.Context, distrito string) ([]string, error) {
	return s.regions.Get(ctx, distrito)
}

// BuildRegionMapping derives distrito -> sorted unique municipios from
// the catalog. The "" key collects every municipio across all districts.
// Sites missing either value are skipped.
func BuildRegionMapping(catalog []models.Site) map[string][]string {
	seen := make(map[string]map[string]struct{})
	all := make(map[string]struct{})

	for _, site := range catalog {
		if site.Distrito == "" || site.Municipio == "" {
			continue
		}
		if seen[site.Distrito] == nil {
			seen[site.Distrito] = make(map[string]struct{})
		}
		seen[site.Distrito][site.Municipio] = struct{}{}
		all[site.Municipio] = struct{}{}
	}

	mapping := make(map[string][]string, len(seen)+1)
	for distrito, municipios := range seen {
		mapping[distrito] = sortedKeys(municipios)
	}
	mapping[""] = sortedKeys(all)
	return mapping
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
