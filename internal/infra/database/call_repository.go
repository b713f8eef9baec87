package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadsync/internal/entity"
)

type CallRepository struct {
	DB *sql.DB
}

func NewCallRepository(db *sql.DB) *CallRepository {
	return &CallRepository{DB: db}
}

func (r *CallRepository) Create(ctx context.Context, c *entity.Call) error {
	query := `
		INSERT INTO calls (
			id, lead_id, company_id, agent_id, vapi_call_id, status, duration,
			recording_url, transcript, summary, intent, sentiment, success_evaluation, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.LeadID,
		c.CompanyID,
		nullString(c.AgentID),
		nullString(c.VapiCallID),
		c.Status,
		c.Duration,
		nullString(c.RecordingURL),
		nullString(c.Transcript),
		nullString(c.Summary),
		nullString(c.Intent),
		nullString(c.Sentiment),
		c.SuccessEvaluation,
		c.CreatedAt,
	)
	return err
}
