package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/usecase"
)

type SyncLogHandler struct {
	Logs entity.SyncLogRepositoryInterface
}

func NewSyncLogHandler(logs entity.SyncLogRepositoryInterface) *SyncLogHandler {
	return &SyncLogHandler{Logs: logs}
}

type SyncLogListResponse struct {
	Success bool                  `json:"success"`
	Logs    []entity.SyncLogEntry `json:"logs"`
}

func (h *SyncLogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErrorResponse(w, usecase.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeErrorResponse(w, usecase.NewBadRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}

	logs, err := h.Logs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeErrorResponse(w, usecase.NewPersistenceError("failed to list sync logs", err))
		return
	}
	if logs == nil {
		logs = []entity.SyncLogEntry{}
	}

	writeJSON(w, http.StatusOK, SyncLogListResponse{Success: true, Logs: logs})
}
