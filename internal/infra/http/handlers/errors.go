package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/leadsync/internal/infra/integration/google"
	"github.com/xavierca1/leadsync/internal/usecase"
)

// maxBodyBytes limita o corpo JSON aceito pelos handlers.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️ [HTTP] Erro ao escrever resposta: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

// writeErrorResponse traduz erros de use case/integração para status HTTP.
func writeErrorResponse(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var (
		authErr  *google.AuthError
		fetchErr *google.FetchError
	)

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrBadRequest), errors.Is(err, usecase.ErrMissingPhone):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrNoCompany):
		return http.StatusUnprocessableEntity
	case errors.As(err, &authErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
