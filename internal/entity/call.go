package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const CallStatusCompleted = "completed"

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Call é uma chamada de voz registrada a partir do webhook de fim de chamada.
type Call struct {
	ID                string    `json:"id"`
	LeadID            string    `json:"lead_id"`
	CompanyID         string    `json:"company_id"`
	AgentID           *string   `json:"agent_id"`
	VapiCallID        *string   `json:"vapi_call_id"`
	Status            string    `json:"status"`
	Duration          int       `json:"duration"` // segundos
	RecordingURL      *string   `json:"recording_url"`
	Transcript        *string   `json:"transcript"`
	Summary           *string   `json:"summary"`
	SuccessEvaluation bool      `json:"success_evaluation"`
	Intent            *string   `json:"intent"`
	Sentiment         *string   `json:"sentiment"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewCall(leadID, companyID string) *Call {
	return &Call{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		CompanyID: companyID,
		Status:    CallStatusCompleted,
		CreatedAt: time.Now(),
	}
}

type CallRepositoryInterface interface {
	Create(ctx context.Context, call *Call) error
}

type UserRepositoryInterface interface {
	// FindCompanyID resolve o tenant do usuário autenticado.
	FindCompanyID(ctx context.Context, userID string) (string, error)
}

type CompanyRepositoryInterface interface {
	FindFirstID(ctx context.Context) (string, error)
}

type AgentRepositoryInterface interface {
	FindFirstIDByCompany(ctx context.Context, companyID string) (string, error)
}
