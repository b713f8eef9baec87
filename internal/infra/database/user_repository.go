package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/leadsync/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindCompanyID(ctx context.Context, userID string) (string, error) {
	var companyID string
	err := r.DB.QueryRowContext(ctx, `SELECT company_id FROM users WHERE id = $1`, userID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", entity.ErrUserNotFound
		}
		return "", err
	}
	return companyID, nil
}

type CompanyRepository struct {
	DB *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

// FindFirstID devolve a company mais antiga; leads de chamadas sem dono caem nela.
func (r *CompanyRepository) FindFirstID(ctx context.Context) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM companies ORDER BY created_at ASC LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", entity.ErrCompanyNotFound
		}
		return "", err
	}
	return id, nil
}

type AgentRepository struct {
	DB *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) FindFirstIDByCompany(ctx context.Context, companyID string) (string, error) {
	query := `
		SELECT id FROM agents
		WHERE company_id = $1 AND is_active
		ORDER BY created_at ASC
		LIMIT 1
	`

	var id string
	if err := r.DB.QueryRowContext(ctx, query, companyID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", entity.ErrAgentNotFound
		}
		return "", err
	}
	return id, nil
}
