package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	CallResultCreatedLead = "created_lead"
	CallResultUpdatedLead = "updated_lead"
	CallResultIgnored     = "ignored"
	CallResultError       = "error"
)

// IngestCallUseCase grava o relatório de fim de chamada do Vapi como call + lead.
type IngestCallUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Calls     entity.CallRepositoryInterface
	Companies entity.CompanyRepositoryInterface
	Agents    entity.AgentRepositoryInterface
	Metrics   CallMetrics
	now       func() time.Time
}

func NewIngestCallUseCase(
	leads entity.LeadRepositoryInterface,
	calls entity.CallRepositoryInterface,
	companies entity.CompanyRepositoryInterface,
	agents entity.AgentRepositoryInterface,
	metrics CallMetrics,
) *IngestCallUseCase {
	return &IngestCallUseCase{
		Leads:     leads,
		Calls:     calls,
		Companies: companies,
		Agents:    agents,
		Metrics:   metrics,
		now:       time.Now,
	}
}

func (uc *IngestCallUseCase) Execute(ctx context.Context, payload VapiWebhookPayload) (*IngestCallOutput, error) {
	output, err := uc.execute(ctx, payload)

	result := CallResultError
	if err == nil {
		switch {
		case !output.Handled:
			result = CallResultIgnored
		case output.CreatedLead:
			result = CallResultCreatedLead
		default:
			result = CallResultUpdatedLead
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.ObserveCall(result)
	}

	return output, err
}

func (uc *IngestCallUseCase) execute(ctx context.Context, payload VapiWebhookPayload) (*IngestCallOutput, error) {
	msg := payload.Message
	log.Printf("📞 [VAPI_WEBHOOK] Received %s (call %s)", msg.Type, msg.Call.ID)

	if msg.Type != VapiEventEndOfCallReport {
		return &IngestCallOutput{Handled: false, Message: "Event type not handled"}, nil
	}

	phone := msg.Call.customerNumber()
	digits := DigitsOnly(phone)
	if digits == "" {
		log.Println("❌ [VAPI_WEBHOOK] No phone number in call data")
		return nil, ErrMissingPhone
	}

	lead, err := uc.Leads.FindByMobileDigits(ctx, digits)
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, NewPersistenceError("failed to find lead", err)
	}

	if lead == nil {
		return uc.createLeadWithCall(ctx, msg.Call, phone)
	}
	return uc.attachCall(ctx, lead, msg.Call)
}

// createLeadWithCall cria lead + call; se a call falhar o lead recém-criado é apagado.
func (uc *IngestCallUseCase) createLeadWithCall(ctx context.Context, call VapiCall, phone string) (*IngestCallOutput, error) {
	companyID, err := uc.Companies.FindFirstID(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrCompanyNotFound) {
			return nil, ErrNoCompany
		}
		return nil, NewPersistenceError("failed to find company", err)
	}

	now := uc.now()
	prefs := call.structuredData().Preferences()
	lead := &entity.Lead{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		Name:               entity.UnknownLeadName,
		Mobile:             phone,
		Budget:             prefs.Budget,
		LocationPreference: prefs.LocationPreference,
		UnitPreference:     prefs.UnitPreference,
		PossessionTimeline: prefs.PossessionTimeline,
		Source:             entity.LeadSourceVapiCall,
		Status:             entity.LeadStatusContacted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if call.Customer != nil {
		if name := strings.TrimSpace(call.Customer.Name); name != "" {
			lead.Name = name
		}
		lead.Email = entity.StringPtr(strings.TrimSpace(call.Customer.Email))
	}

	record := uc.buildCall(ctx, lead.ID, companyID, call)

	tx := NewTransaction()
	tx.AddOperation("create_lead", func(ctx context.Context) error {
		return uc.Leads.Create(ctx, lead)
	})
	tx.AddCompensation("delete_lead", func(ctx context.Context) error {
		return uc.Leads.Delete(ctx, lead.ID)
	})
	tx.AddOperation("create_call", func(ctx context.Context) error {
		return uc.Calls.Create(ctx, record)
	})
	tx.AddCompensation("noop", nil)

	if err := tx.Execute(ctx); err != nil {
		log.Printf("❌ [VAPI_WEBHOOK] Error creating lead/call: %v", err)
		return nil, NewPersistenceError("failed to create lead and call record", err)
	}

	log.Printf("✅ [VAPI_WEBHOOK] Created new lead %s and call record %s", lead.ID, record.ID)
	return &IngestCallOutput{
		Handled:     true,
		LeadID:      lead.ID,
		CallID:      record.ID,
		CreatedLead: true,
		Message:     "Webhook processed",
	}, nil
}

// attachCall grava a call num lead existente e aplica as preferências não vazias.
func (uc *IngestCallUseCase) attachCall(ctx context.Context, lead *entity.Lead, call VapiCall) (*IngestCallOutput, error) {
	record := uc.buildCall(ctx, lead.ID, lead.CompanyID, call)
	if err := uc.Calls.Create(ctx, record); err != nil {
		log.Printf("❌ [VAPI_WEBHOOK] Error creating call: %v", err)
		return nil, NewPersistenceError("failed to create call record", err)
	}

	if prefs := call.structuredData().Preferences(); !prefs.IsEmpty() {
		if err := uc.Leads.UpdatePreferences(ctx, lead.ID, prefs); err != nil {
			// a call já foi gravada; o lead fica com as preferências antigas
			log.Printf("⚠️ [VAPI_WEBHOOK] Call saved but failed to update lead %s: %v", lead.ID, err)
		}
	}

	log.Printf("✅ [VAPI_WEBHOOK] Updated existing lead %s with call data", lead.ID)
	return &IngestCallOutput{
		Handled: true,
		LeadID:  lead.ID,
		CallID:  record.ID,
		Message: "Webhook processed",
	}, nil
}

func (uc *IngestCallUseCase) buildCall(ctx context.Context, leadID, companyID string, call VapiCall) *entity.Call {
	record := entity.NewCall(leadID, companyID)
	record.AgentID = uc.findAgent(ctx, companyID)
	record.VapiCallID = entity.StringPtr(call.ID)
	record.Duration = call.durationSeconds()
	record.RecordingURL = entity.StringPtr(call.RecordingURL)
	record.Transcript = entity.StringPtr(call.Transcript)

	if call.Analysis != nil {
		record.Summary = entity.StringPtr(call.Analysis.Summary)
		record.SuccessEvaluation = bool(call.Analysis.SuccessEvaluation)
	}
	if sd := call.structuredData(); sd != nil {
		record.Intent = entity.StringPtr(sd.Intent)
		record.Sentiment = entity.StringPtr(sd.Sentiment)
	}
	return record
}

func (uc *IngestCallUseCase) findAgent(ctx context.Context, companyID string) *string {
	if uc.Agents == nil {
		return nil
	}
	agentID, err := uc.Agents.FindFirstIDByCompany(ctx, companyID)
	if err != nil {
		if !errors.Is(err, entity.ErrAgentNotFound) {
			log.Printf("⚠️ [VAPI_WEBHOOK] Agent lookup failed for company %s: %v", companyID, err)
		}
		return nil
	}
	return entity.StringPtr(agentID)
}
