package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/leadsync/internal/entity"
)

const DefaultSheetsScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

type SyncInput struct {
	UserID  string
	SheetID string
	TabName string
}

type SyncOutput struct {
	RowsSynced int
	Dropped    int
	Duration   time.Duration
	Warning    string
}

type SyncGoogleSheetsUseCase struct {
	Users       entity.UserRepositoryInterface
	SyncLogs    SyncLogWriter
	Signer      CredentialSigner
	Fetcher     SheetFetcher
	Coordinator *UpsertCoordinator
	Publisher   SyncEventPublisher
	Metrics     SyncMetrics
	Scope       string
	now         func() time.Time
}

func NewSyncGoogleSheetsUseCase(
	users entity.UserRepositoryInterface,
	leads LeadUpserter,
	syncLogs SyncLogWriter,
	signer CredentialSigner,
	fetcher SheetFetcher,
	publisher SyncEventPublisher,
	metrics SyncMetrics,
	scope string,
) *SyncGoogleSheetsUseCase {
	if scope == "" {
		scope = DefaultSheetsScope
	}
	return &SyncGoogleSheetsUseCase{
		Users:       users,
		SyncLogs:    syncLogs,
		Signer:      signer,
		Fetcher:     fetcher,
		Coordinator: NewUpsertCoordinator(leads, syncLogs),
		Publisher:   publisher,
		Metrics:     metrics,
		Scope:       scope,
		now:         time.Now,
	}
}

// Execute roda o pipeline linear: tenant → validação → token → planilha → mapeamento → upsert.
// Qualquer falha depois da autenticação vira um sync log de erro (best-effort).
func (uc *SyncGoogleSheetsUseCase) Execute(ctx context.Context, input SyncInput) (*SyncOutput, error) {
	startedAt := uc.now()

	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrUnauthorized
	}

	event := entity.SyncEvent{
		UserID:  input.UserID,
		SheetID: input.SheetID,
		TabName: input.TabName,
	}

	output, err := uc.run(ctx, input, startedAt, &event)
	if err != nil {
		return nil, uc.Fail(ctx, input.UserID, startedAt, err, &event)
	}

	event.Status = entity.SyncStatusSuccess
	event.RowsSynced = output.RowsSynced
	event.Dropped = output.Dropped
	event.DurationMS = output.Duration.Milliseconds()
	event.Warning = output.Warning
	uc.observe(ctx, event)

	return output, nil
}

func (uc *SyncGoogleSheetsUseCase) run(ctx context.Context, input SyncInput, startedAt time.Time, event *entity.SyncEvent) (*SyncOutput, error) {
	companyID, err := uc.Users.FindCompanyID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, NewPersistenceError("failed to load profile", err)
	}
	if companyID == "" {
		return nil, ErrProfileNotFound
	}
	event.CompanyID = companyID

	sheetID := strings.TrimSpace(input.SheetID)
	tabName := strings.TrimSpace(input.TabName)
	if sheetID == "" || tabName == "" {
		return nil, NewBadRequest("Missing sheetId or tabName")
	}

	token, err := uc.Signer.AccessToken(ctx, uc.Scope)
	if err != nil {
		return nil, err
	}
	log.Println("🔑 [AUTH] Access token obtained successfully")

	grid, err := uc.Fetcher.Fetch(ctx, token, sheetID, tabName)
	if err != nil {
		return nil, err
	}

	result := MapRows(companyID, grid)
	log.Printf("📄 [SYNC] Headers found: %v", result.Headers)
	log.Printf("📄 [SYNC] Total data rows: %d | valid: %d | dropped: %d", result.DataRows, len(result.Leads), result.Dropped)
	for _, d := range result.DroppedRows {
		log.Printf("🚫 [SYNC] Row %d dropped without mobile: %s", d.RowNumber, d.Name)
	}

	persisted, err := uc.Coordinator.Persist(ctx, PersistInput{
		CompanyID: companyID,
		UserID:    input.UserID,
		Result:    result,
		StartedAt: startedAt,
	})
	if err != nil {
		return nil, err
	}

	return &SyncOutput{
		RowsSynced: persisted.RowsSynced,
		Dropped:    result.Dropped,
		Duration:   persisted.Duration,
		Warning:    persisted.Warning,
	}, nil
}

// Fail registra a tentativa com erro e devolve o erro original.
// Falha ao gravar o log nunca substitui o erro original.
func (uc *SyncGoogleSheetsUseCase) Fail(ctx context.Context, userID string, startedAt time.Time, cause error, event *entity.SyncEvent) error {
	log.Printf("❌ [SYNC] Falha no sync do usuário %s: %v", userID, cause)

	duration := uc.now().Sub(startedAt)
	entry := entity.NewSyncLogEntry(userID, entity.SyncStatusError, 0, duration, cause.Error())
	if err := uc.SyncLogs.Create(ctx, entry); err != nil {
		log.Printf("⚠️ [SYNC] Falha ao gravar sync log de erro: %v", err)
	}

	if event == nil {
		event = &entity.SyncEvent{UserID: userID}
	}
	event.Status = entity.SyncStatusError
	event.DurationMS = duration.Milliseconds()
	event.Error = cause.Error()
	uc.observe(ctx, *event)

	return cause
}

func (uc *SyncGoogleSheetsUseCase) observe(ctx context.Context, event entity.SyncEvent) {
	event.OccurredAt = uc.now()

	if uc.Metrics != nil {
		uc.Metrics.ObserveSync(event.Status, event.RowsSynced, event.Dropped)
	}

	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishSyncEvent(ctx, event); err != nil {
		log.Printf("⚠️ [SYNC] Sync concluído mas falha ao publicar evento: %v", err)
	}
}
