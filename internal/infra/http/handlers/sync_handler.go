package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/usecase"
)

type SyncHandler struct {
	SyncUC *usecase.SyncGoogleSheetsUseCase
}

func NewSyncHandler(uc *usecase.SyncGoogleSheetsUseCase) *SyncHandler {
	return &SyncHandler{SyncUC: uc}
}

type SyncRequest struct {
	SheetID string `json:"sheetId"`
	TabName string `json:"tabName"`
}

type SyncResponse struct {
	Success    bool   `json:"success"`
	RowsSynced int    `json:"rowsSynced"`
	Duration   int64  `json:"duration"` // ms
	Warning    string `json:"warning,omitempty"`
}

// Handle dispara o sync para o usuário da sessão. O user id nunca vem do corpo.
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	startedAt := time.Now()
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErrorResponse(w, usecase.ErrUnauthorized)
		return
	}

	var req SyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		err = h.SyncUC.Fail(r.Context(), userID, startedAt, usecase.NewBadRequest("Invalid JSON body"), nil)
		writeErrorResponse(w, err)
		return
	}

	output, err := h.SyncUC.Execute(r.Context(), usecase.SyncInput{
		UserID:  userID,
		SheetID: req.SheetID,
		TabName: req.TabName,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Success:    true,
		RowsSynced: output.RowsSynced,
		Duration:   output.Duration.Milliseconds(),
		Warning:    output.Warning,
	})
}
