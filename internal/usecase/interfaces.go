package usecase

import (
	"context"

	"github.com/xavierca1/leadsync/internal/entity"
)

// CredentialSigner troca a chave da service account por um bearer token.
type CredentialSigner interface {
	AccessToken(ctx context.Context, scope string) (*entity.AccessToken, error)
}

type SheetFetcher interface {
	Fetch(ctx context.Context, token *entity.AccessToken, spreadsheetID, tabName string) (entity.SheetGrid, error)
}

// SyncEventPublisher é opcional; nil desliga a publicação.
type SyncEventPublisher interface {
	PublishSyncEvent(ctx context.Context, event entity.SyncEvent) error
}

type SyncMetrics interface {
	ObserveSync(status string, rowsSynced, dropped int)
}

type CallMetrics interface {
	ObserveCall(result string)
}

type LeadUpserter interface {
	UpsertBatch(ctx context.Context, leads []entity.MappedLead) (int, error)
}

type SyncLogWriter interface {
	Create(ctx context.Context, entry *entity.SyncLogEntry) error
}
