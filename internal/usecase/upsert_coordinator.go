package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/leadsync/internal/entity"
)

type UpsertCoordinator struct {
	Leads    LeadUpserter
	SyncLogs SyncLogWriter
	now      func() time.Time
}

func NewUpsertCoordinator(leads LeadUpserter, logs SyncLogWriter) *UpsertCoordinator {
	return &UpsertCoordinator{
		Leads:    leads,
		SyncLogs: logs,
		now:      time.Now,
	}
}

type PersistInput struct {
	CompanyID string
	UserID    string
	Result    MapResult
	StartedAt time.Time
}

type PersistOutput struct {
	RowsSynced int
	Duration   time.Duration
	Warning    string
}

// Persist grava o lote e escreve exatamente um log de sucesso.
// Em falha do banco não escreve log: quem chamou registra o erro.
func (c *UpsertCoordinator) Persist(ctx context.Context, input PersistInput) (*PersistOutput, error) {
	leads := dedupeByMobile(input.Result.Leads)

	if len(leads) == 0 {
		warning := noValidRowsWarning(input.Result)
		log.Printf("⚠️ [SYNC] %s", warning)

		duration := c.now().Sub(input.StartedAt)
		entry := entity.NewSyncLogEntry(input.UserID, entity.SyncStatusSuccess, 0, duration, warning)
		if err := c.SyncLogs.Create(ctx, entry); err != nil {
			log.Printf("⚠️ [SYNC] Falha ao gravar sync log: %v", err)
		}
		return &PersistOutput{RowsSynced: 0, Duration: duration, Warning: warning}, nil
	}

	written, err := c.Leads.UpsertBatch(ctx, leads)
	if err != nil {
		return nil, NewPersistenceError("failed to upsert leads", err)
	}

	duration := c.now().Sub(input.StartedAt)
	entry := entity.NewSyncLogEntry(input.UserID, entity.SyncStatusSuccess, written, duration, "")
	if err := c.SyncLogs.Create(ctx, entry); err != nil {
		log.Printf("⚠️ [SYNC] Leads gravados mas falha ao gravar sync log: %v", err)
	}

	log.Printf("✅ [SYNC] %d leads sincronizados para company %s", written, input.CompanyID)
	return &PersistOutput{RowsSynced: written, Duration: duration}, nil
}

// dedupeByMobile mantém uma entrada por mobile: a linha mais abaixo vence,
// na posição da primeira ocorrência. O Postgres recusa o mesmo conflito duas vezes no lote.
func dedupeByMobile(leads []entity.MappedLead) []entity.MappedLead {
	index := make(map[string]int, len(leads))
	out := make([]entity.MappedLead, 0, len(leads))
	for _, l := range leads {
		l.Mobile = strings.TrimSpace(l.Mobile)
		if i, ok := index[l.Mobile]; ok {
			out[i] = l
			continue
		}
		index[l.Mobile] = len(out)
		out = append(out, l)
	}
	return out
}

func noValidRowsWarning(r MapResult) string {
	return fmt.Sprintf(
		"No valid leads found. Sheet has %d rows but none have valid mobile numbers. Headers: %s",
		r.DataRows, strings.Join(r.Headers, ", "),
	)
}
