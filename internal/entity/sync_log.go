package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncLogEntry é o registro de auditoria de uma tentativa de sync. Append-only.
type SyncLogEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"` // success, error
	RowsSynced   int       `json:"rows_synced"`
	DurationMS   int64     `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewSyncLogEntry(userID, status string, rows int, duration time.Duration, message string) *SyncLogEntry {
	return &SyncLogEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		Status:       status,
		RowsSynced:   rows,
		DurationMS:   duration.Milliseconds(),
		ErrorMessage: StringPtr(message),
		CreatedAt:    time.Now(),
	}
}

type SyncLogRepositoryInterface interface {
	Create(ctx context.Context, entry *SyncLogEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]SyncLogEntry, error)
}

// SyncEvent é publicado na fila depois de cada tentativa de sync.
type SyncEvent struct {
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id,omitempty"`
	SheetID    string    `json:"sheet_id,omitempty"`
	TabName    string    `json:"tab_name,omitempty"`
	Status     string    `json:"status"`
	RowsSynced int       `json:"rows_synced"`
	Dropped    int       `json:"dropped"`
	DurationMS int64     `json:"duration_ms"`
	Warning    string    `json:"warning,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
