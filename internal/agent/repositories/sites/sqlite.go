package sites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/dbx"
)

// SQLiteRepository holds a *sql.DB (not a DBTX) because ReplaceAll opens
// its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Site, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM sites`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sites: %w", err)
	}
	defer rows.Close()

	var result []models.Site
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var site models.Site
		if err := json.Unmarshal(data, &site); err != nil {
			return nil, fmt.Errorf("failed to unmarshal site: %w", err)
		}
		result = append(result, site)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, sites []models.Site) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sites`); err != nil {
			return fmt.Errorf("failed to clear sites: %w", err)
		}
		for _, site := range sites {
			data, err := json.Marshal(site)
			if err != nil {
				return fmt.Errorf("failed to marshal site: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO sites (id, distrito, municipio, data) VALUES (?, ?, ?, ?)`,
				site.ID, site.Distrito, site.Municipio, data)
			if err != nil {
				return fmt.Errorf("failed to insert site: %w", err)
			}
		}
		return nil
	})
}
