package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/usecase"
)

type AnalyticsHandler struct {
	InsightsUC *usecase.LeadInsightsUseCase
}

func NewAnalyticsHandler(uc *usecase.LeadInsightsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{InsightsUC: uc}
}

type LeadAnalyticsResponse struct {
	Success bool                 `json:"success"`
	Summary *usecase.LeadSummary `json:"summary"`
}

// Leads: GET /analytics/leads?from=2024-03-01&to=2024-04-01&tz=Asia/Kolkata
func (h *AnalyticsHandler) Leads(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeErrorResponse(w, usecase.ErrUnauthorized)
		return
	}

	q := r.URL.Query()

	loc := time.UTC
	if tz := q.Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			writeErrorResponse(w, usecase.NewBadRequest("invalid tz"))
			return
		}
		loc = l
	}

	from, err := parseDateParam(q.Get("from"), loc)
	if err != nil {
		writeErrorResponse(w, usecase.NewBadRequest("invalid 'from' date"))
		return
	}
	to, err := parseDateParam(q.Get("to"), loc)
	if err != nil {
		writeErrorResponse(w, usecase.NewBadRequest("invalid 'to' date"))
		return
	}

	summary, err := h.InsightsUC.Execute(r.Context(), usecase.LeadInsightsInput{
		UserID:   userID,
		From:     from,
		To:       to,
		Location: loc,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LeadAnalyticsResponse{Success: true, Summary: summary})
}

// parseDateParam aceita RFC3339 ou YYYY-MM-DD (meia-noite em loc). Vazio vira zero.
func parseDateParam(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, loc)
}
