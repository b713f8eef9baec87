package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/xavierca1/leadsync/internal/entity"
)

const VapiEventEndOfCallReport = "end-of-call-report"

// VapiWebhookPayload é o envelope que o Vapi manda para o server URL do assistente.
type VapiWebhookPayload struct {
	Message VapiMessage `json:"message"`
}

type VapiMessage struct {
	Type string   `json:"type"`
	Call VapiCall `json:"call"`
}

type VapiCall struct {
	ID           string        `json:"id"`
	AssistantID  string        `json:"assistantId,omitempty"`
	Customer     *VapiCustomer `json:"customer,omitempty"`
	Status       string        `json:"status"`
	StartedAt    string        `json:"startedAt,omitempty"`
	EndedAt      string        `json:"endedAt,omitempty"`
	Duration     float64       `json:"duration,omitempty"` // segundos
	RecordingURL string        `json:"recordingUrl,omitempty"`
	Transcript   string        `json:"transcript,omitempty"`
	Analysis     *VapiAnalysis `json:"analysis,omitempty"`
}

type VapiCustomer struct {
	Number string `json:"number,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type VapiAnalysis struct {
	Summary           string              `json:"summary,omitempty"`
	SuccessEvaluation FlexBool            `json:"successEvaluation,omitempty"`
	StructuredData    *VapiStructuredData `json:"structuredData,omitempty"`
}

type VapiStructuredData struct {
	Intent             string `json:"intent,omitempty"`
	Sentiment          string `json:"sentiment,omitempty"`
	Budget             string `json:"budget,omitempty"`
	Location           string `json:"location,omitempty"`
	UnitPreference     string `json:"unitPreference,omitempty"`
	PossessionTimeline string `json:"possessionTimeline,omitempty"`
}

// Preferences devolve só os campos preenchidos; vazios ficam nil.
func (s *VapiStructuredData) Preferences() entity.LeadPreferences {
	if s == nil {
		return entity.LeadPreferences{}
	}
	return entity.LeadPreferences{
		Budget:             entity.StringPtr(strings.TrimSpace(s.Budget)),
		LocationPreference: entity.StringPtr(strings.TrimSpace(s.Location)),
		UnitPreference:     entity.StringPtr(strings.TrimSpace(s.UnitPreference)),
		PossessionTimeline: entity.StringPtr(strings.TrimSpace(s.PossessionTimeline)),
	}
}

// FlexBool aceita true, "true", "pass" ou 1. O rubric do Vapi muda o tipo conforme o assistente.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "pass", "yes", "1":
			*b = true
		default:
			*b = false
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*b = n != 0
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

func (c VapiCall) customerNumber() string {
	if c.Customer == nil {
		return ""
	}
	return strings.TrimSpace(c.Customer.Number)
}

func (c VapiCall) structuredData() *VapiStructuredData {
	if c.Analysis == nil {
		return nil
	}
	return c.Analysis.StructuredData
}

func (c VapiCall) durationSeconds() int {
	return int(math.Round(c.Duration))
}

type IngestCallOutput struct {
	Handled     bool   `json:"handled"`
	LeadID      string `json:"lead_id,omitempty"`
	CallID      string `json:"call_id,omitempty"`
	CreatedLead bool   `json:"created_lead"`
	Message     string `json:"message"`
}

// SheetConfigInput é o corpo do PUT /integrations/google-sheets/config.
type SheetConfigInput struct {
	SheetID string `json:"sheetId"`
	TabName string `json:"tabName"`
}
