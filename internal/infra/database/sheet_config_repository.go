package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/leadsync/internal/entity"
)

type SheetConfigRepository struct {
	DB *sql.DB
}

func NewSheetConfigRepository(db *sql.DB) *SheetConfigRepository {
	return &SheetConfigRepository{DB: db}
}

func (r *SheetConfigRepository) FindByUserID(ctx context.Context, userID string) (*entity.SheetConfig, error) {
	query := `SELECT user_id, sheet_id, tab_name, updated_at FROM sheet_configs WHERE user_id = $1`

	var cfg entity.SheetConfig
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&cfg.UserID, &cfg.SheetID, &cfg.TabName, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSheetConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Save faz upsert por usuário: cada usuário tem uma planilha configurada.
func (r *SheetConfigRepository) Save(ctx context.Context, cfg *entity.SheetConfig) error {
	query := `
		INSERT INTO sheet_configs (user_id, sheet_id, tab_name, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			sheet_id = EXCLUDED.sheet_id,
			tab_name = EXCLUDED.tab_name,
			updated_at = NOW()
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(ctx, query, cfg.UserID, cfg.SheetID, cfg.TabName).Scan(&cfg.UpdatedAt)
}
