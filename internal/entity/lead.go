package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	LeadSourceGoogleSheets = "google_sheets"
	LeadSourceVapiCall     = "Vapi Call"

	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"

	UnknownLeadName = "Unknown"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead é a linha persistida na tabela leads. Única por (company_id, mobile).
type Lead struct {
	ID                 string     `json:"id"`
	CompanyID          string     `json:"company_id"`
	Name               string     `json:"name"`
	Mobile             string     `json:"mobile"`
	Email              *string    `json:"email"`
	Budget             *string    `json:"budget"`
	PossessionTimeline *string    `json:"possession_timeline"`
	UnitPreference     *string    `json:"unit_preference"`
	LocationPreference *string    `json:"location_preference"`
	Source             string     `json:"source"`
	Status             string     `json:"status"` // new, contacted, qualified, converted, lost
	NextFollowUp       *time.Time `json:"next_follow_up,omitempty"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// MappedLead is one sheet row after header resolution, ready for upsert.
type MappedLead struct {
	CompanyID          string  `json:"company_id"`
	Name               string  `json:"name"`
	Mobile             string  `json:"mobile"`
	Email              *string `json:"email"`
	Budget             *string `json:"budget"`
	PossessionTimeline *string `json:"possession_timeline"`
	UnitPreference     *string `json:"unit_preference"`
	LocationPreference *string `json:"location_preference"`
	Source             string  `json:"source"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes"`
}

func (m MappedLead) HasMobile() bool {
	return strings.TrimSpace(m.Mobile) != ""
}

// LeadPreferences são os campos que uma chamada de voz pode atualizar num lead existente.
// Nil means "leave as is".
type LeadPreferences struct {
	Budget             *string
	LocationPreference *string
	UnitPreference     *string
	PossessionTimeline *string
}

func (p LeadPreferences) IsEmpty() bool {
	return p.Budget == nil && p.LocationPreference == nil && p.UnitPreference == nil && p.PossessionTimeline == nil
}

type LeadRepositoryInterface interface {
	// UpsertBatch grava todos os leads numa única transação, chave (company_id, mobile).
	UpsertBatch(ctx context.Context, leads []MappedLead) (int, error)
	FindByMobileDigits(ctx context.Context, digits string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	UpdatePreferences(ctx context.Context, id string, prefs LeadPreferences) error
	ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]Lead, error)
}

// StringPtr returns nil for blank strings.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
