package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/xavierca1/leadsync/internal/usecase"
)

const vapiSecretHeader = "X-Vapi-Secret"

type VapiWebhookHandler struct {
	IngestUC *usecase.IngestCallUseCase
	Secret   string
}

// NewVapiWebhookHandler: secret vazio desliga a checagem do header.
func NewVapiWebhookHandler(uc *usecase.IngestCallUseCase, secret string) *VapiWebhookHandler {
	return &VapiWebhookHandler{IngestUC: uc, Secret: secret}
}

type VapiWebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"leadId,omitempty"`
	CallID  string `json:"callId,omitempty"`
}

func (h *VapiWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Secret != "" {
		got := r.Header.Get(vapiSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
			log.Println("🔒 [VAPI_WEBHOOK] Secret inválido")
			writeErrorResponse(w, usecase.ErrUnauthorized)
			return
		}
	}

	var payload usecase.VapiWebhookPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, usecase.NewBadRequest("Invalid JSON body"))
		return
	}

	output, err := h.IngestUC.Execute(r.Context(), payload)
	if err != nil {
		log.Printf("❌ [VAPI_WEBHOOK] Error: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VapiWebhookResponse{
		Success: true,
		Message: output.Message,
		LeadID:  output.LeadID,
		CallID:  output.CallID,
	})
}
