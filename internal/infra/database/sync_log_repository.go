package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	DefaultSyncLogLimit = 20
	MaxSyncLogLimit     = 100
)

type SyncLogRepository struct {
	DB *sql.DB
}

func NewSyncLogRepository(db *sql.DB) *SyncLogRepository {
	return &SyncLogRepository{DB: db}
}

func (r *SyncLogRepository) Create(ctx context.Context, e *entity.SyncLogEntry) error {
	query := `
		INSERT INTO sync_logs (id, user_id, status, rows_synced, duration_ms, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Status,
		e.RowsSynced,
		e.DurationMS,
		nullString(e.ErrorMessage),
		e.CreatedAt,
	)
	return err
}

// ListByUser devolve as tentativas mais recentes primeiro. limit fora de 1..100 vira o padrão/teto.
func (r *SyncLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.SyncLogEntry, error) {
	query := `
		SELECT id, user_id, status, rows_synced, duration_ms, error_message, created_at
		FROM sync_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []entity.SyncLogEntry{}
	for rows.Next() {
		var (
			e   entity.SyncLogEntry
			msg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Status, &e.RowsSynced, &e.DurationMS, &msg, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ErrorMessage = stringPtr(msg)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSyncLogLimit
	case limit > MaxSyncLogLimit:
		return MaxSyncLogLimit
	default:
		return limit
	}
}
