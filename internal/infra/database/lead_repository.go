package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadsync/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const upsertLeadQuery = `
	INSERT INTO leads (
		id, company_id, name, mobile, email,
		budget, possession_timeline, unit_preference, location_preference,
		source, status, notes, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, COALESCE($5, ''),
		$6, $7, $8, $9,
		$10, $11, $12, NOW(), NOW()
	)
	ON CONFLICT (company_id, mobile)
	DO UPDATE SET
		name = EXCLUDED.name,
		email = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
		budget = COALESCE(EXCLUDED.budget, leads.budget),
		possession_timeline = COALESCE(EXCLUDED.possession_timeline, leads.possession_timeline),
		unit_preference = COALESCE(EXCLUDED.unit_preference, leads.unit_preference),
		location_preference = COALESCE(EXCLUDED.location_preference, leads.location_preference),
		source = EXCLUDED.source,
		status = EXCLUDED.status,
		notes = EXCLUDED.notes,
		updated_at = NOW()
`

// UpsertBatch grava o lote numa transação só: ou entram todos, ou nenhum.
// Chamador garante no máximo uma linha por (company_id, mobile) no lote.
func (r *LeadRepository) UpsertBatch(ctx context.Context, leads []entity.MappedLead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertLeadQuery)
	if err != nil {
		return 0, fmt.Errorf("erro ao preparar upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, l := range leads {
		res, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			l.CompanyID,
			l.Name,
			l.Mobile,
			nullString(l.Email),
			nullString(l.Budget),
			nullString(l.PossessionTimeline),
			nullString(l.UnitPreference),
			nullString(l.LocationPreference),
			l.Source,
			l.Status,
			l.Notes,
		)
		if err != nil {
			return 0, fmt.Errorf("erro no upsert do lead %s: %w", l.Mobile, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		written += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("erro no commit do lote: %w", err)
	}
	return written, nil
}

const leadColumns = `
	id, company_id, name, mobile, NULLIF(email, ''),
	budget, possession_timeline, unit_preference, location_preference,
	source, status, next_follow_up, notes, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l                                    entity.Lead
		email, budget, possession, unit, loc sql.NullString
		nextFollowUp                         sql.NullTime
	)
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Mobile, &email,
		&budget, &possession, &unit, &loc,
		&l.Source, &l.Status, &nextFollowUp, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Email = stringPtr(email)
	l.Budget = stringPtr(budget)
	l.PossessionTimeline = stringPtr(possession)
	l.UnitPreference = stringPtr(unit)
	l.LocationPreference = stringPtr(loc)
	if nextFollowUp.Valid {
		t := nextFollowUp.Time
		l.NextFollowUp = &t
	}
	return &l, nil
}

// FindByMobileDigits compara só os dígitos, nos dois sentidos: "+91 98765 43210" casa com
// "9876543210" e vice-versa. Com mais de um candidato, vence o lead mais antigo.
func (r *LeadRepository) FindByMobileDigits(ctx context.Context, digits string) (*entity.Lead, error) {
	if digits == "" {
		return nil, entity.ErrLeadNotFound
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE regexp_replace(mobile, '\D', '', 'g') LIKE '%' || $1::text || '%'
		   OR (
		        length(regexp_replace(mobile, '\D', '', 'g')) >= 7
		        AND $1::text LIKE '%' || regexp_replace(mobile, '\D', '', 'g')
		   )
		ORDER BY created_at ASC
		LIMIT 1
	`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, digits))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, company_id, name, mobile, email,
			budget, possession_timeline, unit_preference, location_preference,
			source, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, COALESCE($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.CompanyID,
		l.Name,
		l.Mobile,
		nullString(l.Email),
		nullString(l.Budget),
		nullString(l.PossessionTimeline),
		nullString(l.UnitPreference),
		nullString(l.LocationPreference),
		l.Source,
		l.Status,
		l.Notes,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lead %s já existe na company %s: %w", l.Mobile, l.CompanyID, err)
		}
		log.Printf("❌ [DB] Erro ao criar lead: %v", err)
		return err
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return err
}

// UpdatePreferences só toca nos campos não-nil.
func (r *LeadRepository) UpdatePreferences(ctx context.Context, id string, prefs entity.LeadPreferences) error {
	if prefs.IsEmpty() {
		return nil
	}

	query := `
		UPDATE leads SET
			budget = COALESCE($2, budget),
			location_preference = COALESCE($3, location_preference),
			unit_preference = COALESCE($4, unit_preference),
			possession_timeline = COALESCE($5, possession_timeline),
			updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		id,
		nullString(prefs.Budget),
		nullString(prefs.LocationPreference),
		nullString(prefs.UnitPreference),
		nullString(prefs.PossessionTimeline),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// ListByCompany: from/to zerados significam sem limite naquele lado.
func (r *LeadRepository) ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE company_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC, id
	`

	rows, err := r.DB.QueryContext(ctx, query, companyID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
