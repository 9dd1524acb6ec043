package regions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/surveysync/internal/common"
	"github.com/dmitrijs2005/surveysync/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, mapping map[string][]string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM region_mapping`); err != nil {
			return fmt.Errorf("failed to clear region mapping: %w", err)
		}
		for distrito, municipios := range mapping {
			data, err := json.Marshal(municipios)
			if err != nil {
				return fmt.Errorf("failed to marshal municipios: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO region_mapping (distrito, municipios) VALUES (?, ?)`,
				distrito, data)
			if err != nil {
				return fmt.Errorf("failed to insert region mapping: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, distrito string) ([]string, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT municipios FROM region_mapping WHERE distrito = ?`, distrito).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select region mapping: %w", err)
	}

	var municipios []string
	if err := json.Unmarshal(data, &municipios); err != nil {
		return nil, fmt.Errorf("failed to unmarshal municipios: %w", err)
	}
	return municipios, nil
}

func (r *SQLiteRepository) Districts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT distrito FROM region_mapping WHERE distrito <> '' ORDER BY distrito`)
	if err != nil {
		return nil, fmt.Errorf("failed to select districts: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
