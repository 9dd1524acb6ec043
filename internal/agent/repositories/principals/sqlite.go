package principals

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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO principals (uid, data) VALUES (?, ?)
		ON CONFLICT(uid) DO UPDATE SET data = excluded.data
	`, profile.UID, data)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM principals WHERE uid = ?`, uid).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select profile: %w", err)
	}

	profile := &models.UserProfile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}
