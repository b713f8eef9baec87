package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/usecase"
)

type SheetConfigHandler struct {
	Configs entity.SheetConfigRepositoryInterface
}

func NewSheetConfigHandler(configs entity.SheetConfigRepositoryInterface) *SheetConfigHandler {
	return &SheetConfigHandler{Configs: configs}
}

type SheetConfigResponse struct {
	Success bool                `json:"success"`
	Config  *entity.SheetConfig `json:"config"`
}

func (h *SheetConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErrorResponse(w, usecase.ErrUnauthorized)
		return
	}

	cfg, err := h.Configs.FindByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, entity.ErrSheetConfigNotFound) {
			writeError(w, http.StatusNotFound, "Sheet config not found")
			return
		}
		writeErrorResponse(w, usecase.NewPersistenceError("failed to load sheet config", err))
		return
	}

	writeJSON(w, http.StatusOK, SheetConfigResponse{Success: true, Config: cfg})
}

func (h *SheetConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErrorResponse(w, usecase.ErrUnauthorized)
		return
	}

	var input usecase.SheetConfigInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, usecase.NewBadRequest("Invalid JSON body"))
		return
	}

	cfg := &entity.SheetConfig{
		UserID:  userID,
		SheetID: strings.TrimSpace(input.SheetID),
		TabName: strings.TrimSpace(input.TabName),
	}
	if errs := usecase.ValidateSheetConfig(cfg.SheetID, cfg.TabName); len(errs) > 0 {
		writeErrorResponse(w, usecase.NewBadRequest(usecase.JoinValidationErrors(errs)))
		return
	}
	if err := h.Configs.Save(r.Context(), cfg); err != nil {
		writeErrorResponse(w, usecase.NewPersistenceError("failed to save sheet config", err))
		return
	}

	writeJSON(w, http.StatusOK, SheetConfigResponse{Success: true, Config: cfg})
}
