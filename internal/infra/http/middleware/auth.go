package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/leadsync/internal/infra/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

type SessionVerifier interface {
	Verify(raw string) (*auth.Session, error)
}

// RequireSession exige "Authorization: Bearer <jwt>" e coloca o user id no contexto.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w)
				return
			}

			session, err := verifier.Verify(header)
			if err != nil {
				log.Printf("🔒 [AUTH] Sessão rejeitada: %v", err)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), session.UserID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext devolve "" fora de rotas autenticadas.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   "Unauthorized",
	})
}
