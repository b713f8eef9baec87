package entity

import (
	"context"
	"errors"
	"time"
)

var ErrSheetConfigNotFound = errors.New("sheet config not found")

// SheetGrid: linha 0 são os headers, linhas 1..n são dados.
type SheetGrid [][]string

func (g SheetGrid) Headers() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

func (g SheetGrid) DataRows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// AccessToken is a short-lived bearer token. Never cached across syncs.
type AccessToken struct {
	Value  string
	Expiry time.Time
}

// SheetConfig guarda a planilha configurada por usuário na tela de integrações.
type SheetConfig struct {
	UserID    string    `json:"user_id"`
	SheetID   string    `json:"sheet_id"`
	TabName   string    `json:"tab_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SheetConfigRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*SheetConfig, error)
	Save(ctx context.Context, cfg *SheetConfig) error
}
