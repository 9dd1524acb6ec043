package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/surrealdb/surrealdb.go"
)

const (
	tableReports   = "reports"
	tableSites     = "sites"
	tableUsers     = "users"
	tableArtifacts = "generated_reports"
)

// SurrealStore implements DocumentStore over a SurrealDB connection.
// Records are addressed with type::thing so opaque ids (uuids with
// hyphens) never need escaping in query text.
type SurrealStore struct {
	db *surrealdb.DB
}

// Config carries the connection parameters for the hosted database.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

func NewSurrealStore(cfg Config) (*SurrealStore, error) {
	db, err := surrealdb.New(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote store: %w", err)
	}

	if cfg.Username != "" {
		if _, err := db.Signin(map[string]any{"user": cfg.Username, "pass": cfg.Password}); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to sign in to remote store: %w", err)
		}
	}

	if _, err := db.Use(cfg.Namespace, cfg.Database); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to select remote namespace: %w", err)
	}

	return &SurrealStore{db: db}, nil
}

func (s *SurrealStore) Close() error {
	s.db.Close()
	return nil
}

func (s *SurrealStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.Info(); err != nil {
		return fmt.Errorf("remote ping failed: %w", err)
	}
	return nil
}

func (s *SurrealStore) PutReport(ctx context.Context, r *models.Report) error {
	return s.merge(ctx, tableReports, r.ID, r)
}

func (s *SurrealStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := s.getOne(ctx, tableReports, id, &report); err != nil {
		return nil, err
	}
	report.ID = plainID(report.ID)
	return &report, nil
}

func (s *SurrealStore) QueryReports(ctx context.Context, ownerID string) ([]*models.Report, error) {
	query := `SELECT * FROM type::table($tb) ORDER BY updated_at DESC`
	vars := map[string]any{"tb": tableReports}
	if ownerID != "" {
		query = `SELECT * FROM type::table($tb) WHERE user_id = $owner ORDER BY updated_at DESC`
		vars["owner"] = ownerID
	}

	reports, err := queryRows[*models.Report](ctx, s.db, query, vars)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		r.ID = plainID(r.ID)
	}
	return reports, nil
}

func (s *SurrealStore) DeleteReport(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.db.Query(`DELETE type::thing($tb, $id)`,
		map[string]any{"tb": tableReports, "id": id})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListSites(ctx context.Context) ([]models.Site, error) {
	sites, err := queryRows[models.Site](ctx, s.db,
		`SELECT * FROM type::table($tb)`, map[string]any{"tb": tableSites})
	if err != nil {
		return nil, err
	}
	for i := range sites {
		sites[i].ID = plainID(sites[i].ID)
	}
	return sites, nil
}

func (s *SurrealStore) GetPrincipal(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.getOne(ctx, tableUsers, uid, &profile); err != nil {
		return nil, err
	}
	if profile.UID == "" {
		profile.UID = uid
	}
	return &profile, nil
}

func (s *SurrealStore) PutArtifact(ctx context.Context, a *models.GeneratedReport) error {
	return s.merge(ctx, tableArtifacts, a.ID, a)
}

// merge performs a merge upsert of doc at table:id. Fields absent from doc
// are left untouched on the remote side, which is what makes unknown
// document fields pass through this client.
func (s *SurrealStore) merge(ctx context.Context, table, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := toMap(doc)
	if err != nil {
		return err
	}
	delete(data, "id") // the record id lives in the thing, not the body

	rows, err := queryRows[json.RawMessage](ctx, s.db,
		`UPDATE type::thing($tb, $id) MERGE $data`,
		map[string]any{"tb": table, "id": id, "data": data})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: merge affected no document", common.ErrInternal)
	}
	return nil
}

func (s *SurrealStore) getOne(ctx context.Context, table, id string, dest any) error {
	rows, err := queryRows[json.RawMessage](ctx, s.db,
		`SELECT * FROM type::thing($tb, $id)`,
		map[string]any{"tb": table, "id": id})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return common.ErrNotFound
	}
	return json.Unmarshal(rows[0], dest)
}

type queryResult[T any] struct {
	Status string `json:"status"`
	Result []T    `json:"result"`
}

// queryRows runs one SurrealQL statement and decodes its result rows. The
// driver hands results back as generic values, so decoding goes through a
// JSON round trip.
func queryRows[T any](ctx context.Context, db *surrealdb.DB, query string, vars map[string]any) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := db.Query(query, vars)
	if err != nil {
		return nil, fmt.Errorf("remote query failed: %w", err)
	}

	var results []queryResult[T]
	if err := decode(raw, &results); err != nil {
		return nil, fmt.Errorf("failed to decode remote response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: empty remote response", common.ErrInternal)
	}
	if !strings.EqualFold(results[0].Status, "OK") {
		return nil, fmt.Errorf("remote query status %s", results[0].Status)
	}
	return results[0].Result, nil
}

func decode(v any, dest any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func toMap(doc any) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to build document map: %w", err)
	}
	return m, nil
}

// plainID strips the table prefix and id quoting SurrealDB adds to record
// ids ("reports:⟨abc-def⟩" -> "abc-def").
func plainID(id string) string {
	if i := strings.Index(id, ":"); i >= 0 {
		id = id[i+1:]
	}
	id = strings.Trim(id, "`")
	id = strings.TrimPrefix(id, "⟨")
	id = strings.TrimSuffix(id, "⟩")
	return id
}
