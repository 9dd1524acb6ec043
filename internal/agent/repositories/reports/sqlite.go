package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/dmitrijs2005/surveysync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). The full report is stored as JSON; owner, status and
// updated_at are mirrored into columns so filters and ordering run in SQL.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, report *models.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO reports (id, owner_id, status, updated_at, data)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET owner_id = excluded.owner_id,
				status = excluded.status,
				updated_at = excluded.updated_at,
				data = excluded.data
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.UserID, report.Status, report.UpdatedAt, data)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM reports WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select report: %w", err)
	}

	report := &models.Report{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return report, nil
}

func (r *SQLiteRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Report, error) {
	query := `SELECT data FROM reports WHERE owner_id = ? ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Report, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM reports ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

func scanReports(rows *sql.Rows) ([]*models.Report, error) {
	var result []*models.Report
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		report := &models.Report{}
		if err := json.Unmarshal(data, report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		result = append(result, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
