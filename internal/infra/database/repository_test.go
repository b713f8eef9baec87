package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadsync/internal/entity"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultSyncLogLimit, ClampLimit(0))
	assert.Equal(t, DefaultSyncLogLimit, ClampLimit(-5))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxSyncLogLimit, ClampLimit(1000))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("other")))
}

func TestNullStringHelpers(t *testing.T) {
	assert.False(t, nullString(nil).Valid)
	s := "x"
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, nullString(&s))

	assert.Nil(t, stringPtr(sql.NullString{}))
	assert.Nil(t, stringPtr(sql.NullString{Valid: true}))
	assert.Equal(t, "x", *stringPtr(sql.NullString{String: "x", Valid: true}))
}

// Integração: precisa de um Postgres descartável em LEADSYNC_TEST_DATABASE_URL.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("LEADSYNC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEADSYNC_TEST_DATABASE_URL não definida")
	}

	db, err := NewDBConnection(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db), "migrate deve ser idempotente")
	return db
}

func seedCompany(t *testing.T, db *sql.DB) (companyID, userID string) {
	t.Helper()
	ctx := context.Background()
	companyID = uuid.New().String()
	userID = uuid.New().String()

	_, err := db.ExecContext(ctx, `INSERT INTO companies (id, name) VALUES ($1, 'Acme Realty')`, companyID)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (id, company_id, email) VALUES ($1, $2, 'owner@acme.test')`, userID, companyID)
	require.NoError(t, err)
	return companyID, userID
}

func strp(s string) *string { return &s }

func TestLeadRepositoryUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companyID, _ := seedCompany(t, db)
	repo := NewLeadRepository(db)

	batch := []entity.MappedLead{
		{CompanyID: companyID, Name: "Asha", Mobile: "9876543210", Budget: strp("80L"), Source: entity.LeadSourceGoogleSheets, Status: entity.LeadStatusNew},
		{CompanyID: companyID, Name: "Ravi", Mobile: "9000000001", Email: strp("ravi@example.com"), Source: entity.LeadSourceGoogleSheets, Status: entity.LeadStatusNew},
	}

	n, err := repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := repo.ListByCompany(ctx, companyID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)

	second, err := repo.ListByCompany(ctx, companyID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Budget, second[i].Budget)
		assert.Equal(t, first[i].CreatedAt, second[i].CreatedAt)
	}
}

func TestLeadRepositoryUpsertKeepsAbsentFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companyID, _ := seedCompany(t, db)
	repo := NewLeadRepository(db)

	_, err := repo.UpsertBatch(ctx, []entity.MappedLead{
		{CompanyID: companyID, Name: "Asha", Mobile: "111", Budget: strp("80L"), Email: strp("a@x.com"), Source: "google_sheets", Status: "new"},
	})
	require.NoError(t, err)

	_, err = repo.UpsertBatch(ctx, []entity.MappedLead{
		{CompanyID: companyID, Name: "Asha K", Mobile: "111", Source: "google_sheets", Status: "new", Notes: "Call back"},
	})
	require.NoError(t, err)

	leads, err := repo.ListByCompany(ctx, companyID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Asha K", leads[0].Name)
	assert.Equal(t, "80L", *leads[0].Budget)
	assert.Equal(t, "a@x.com", *leads[0].Email)
	assert.Equal(t, "Call back", leads[0].Notes)
}

func TestLeadRepositoryFindByMobileDigits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companyID, _ := seedCompany(t, db)
	repo := NewLeadRepository(db)

	mobile := fmt.Sprintf("98%08d", time.Now().UnixNano()%100000000)
	_, err := repo.UpsertBatch(ctx, []entity.MappedLead{
		{CompanyID: companyID, Name: "Asha", Mobile: mobile[:5] + " " + mobile[5:], Source: "google_sheets", Status: "new"},
	})
	require.NoError(t, err)

	lead, err := repo.FindByMobileDigits(ctx, "91"+mobile)
	require.NoError(t, err)
	assert.Equal(t, "Asha", lead.Name)

	_, err = repo.FindByMobileDigits(ctx, "000000000000000")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryCreateDeleteAndPreferences(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companyID, _ := seedCompany(t, db)
	repo := NewLeadRepository(db)

	now := time.Now()
	lead := &entity.Lead{
		ID: uuid.New().String(), CompanyID: companyID, Name: "Unknown", Mobile: "+91 90000 00042",
		Source: entity.LeadSourceVapiCall, Status: entity.LeadStatusContacted, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, lead))
	assert.Error(t, repo.Create(ctx, &entity.Lead{
		ID: uuid.New().String(), CompanyID: companyID, Name: "Dup", Mobile: lead.Mobile,
		Source: "x", Status: "new", CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, repo.UpdatePreferences(ctx, lead.ID, entity.LeadPreferences{Budget: strp("1.2 Cr")}))
	assert.ErrorIs(t, repo.UpdatePreferences(ctx, uuid.New().String(), entity.LeadPreferences{Budget: strp("x")}), entity.ErrLeadNotFound)

	calls := NewCallRepository(db)
	call := entity.NewCall(lead.ID, companyID)
	call.VapiCallID = strp("vapi-1")
	require.NoError(t, calls.Create(ctx, call))

	require.NoError(t, repo.Delete(ctx, lead.ID))
	leads, err := repo.ListByCompany(ctx, companyID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSyncLogAndSheetConfigRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companyID, userID := seedCompany(t, db)

	users := NewUserRepository(db)
	got, err := users.FindCompanyID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, companyID, got)
	_, err = users.FindCompanyID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, entity.ErrUserNotFound)

	logs := NewSyncLogRepository(db)
	require.NoError(t, logs.Create(ctx, entity.NewSyncLogEntry(userID, entity.SyncStatusSuccess, 3, time.Second, "")))
	require.NoError(t, logs.Create(ctx, entity.NewSyncLogEntry(userID, entity.SyncStatusError, 0, time.Second, "boom")))

	entries, err := logs.ListByUser(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.SyncStatusError, entries[0].Status)
	assert.Equal(t, "boom", *entries[0].ErrorMessage)

	configs := NewSheetConfigRepository(db)
	_, err = configs.FindByUserID(ctx, userID)
	assert.ErrorIs(t, err, entity.ErrSheetConfigNotFound)

	require.NoError(t, configs.Save(ctx, &entity.SheetConfig{UserID: userID, SheetID: "sheet-1", TabName: "Leads"}))
	require.NoError(t, configs.Save(ctx, &entity.SheetConfig{UserID: userID, SheetID: "sheet-2", TabName: "Leads"}))

	cfg, err := configs.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "sheet-2", cfg.SheetID)
}
