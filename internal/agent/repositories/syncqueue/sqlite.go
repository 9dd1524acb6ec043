package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/surveysync/internal/agent/models"
	"github.com/dmitrijs2005/surveysync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.SyncItem) (int64, error) {
	var payload []byte
	if item.Payload != nil {
		var err error
		payload, err = json.Marshal(item.Payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal queue payload: %w", err)
		}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_queue (report_id, action, payload, enqueued_at) VALUES (?, ?, ?, ?)`,
		item.ReportID, item.Action, payload, item.EnqueuedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue sync item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue entry id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.SyncItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, report_id, action, payload, enqueued_at FROM sync_queue ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sync queue: %w", err)
	}
	defer rows.Close()

	var result []models.SyncItem
	for rows.Next() {
		var item models.SyncItem
		var payload []byte
		if err := rows.Scan(&item.ID, &item.ReportID, &item.Action, &payload, &item.EnqueuedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			item.Payload = &models.Report{}
			if err := json.Unmarshal(payload, item.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal queue payload: %w", err)
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return n, nil
}
