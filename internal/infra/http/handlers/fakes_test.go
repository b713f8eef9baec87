package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/integration/google"
)

type fakeUsers map[string]string

func (f fakeUsers) FindCompanyID(_ context.Context, userID string) (string, error) {
	id, ok := f[userID]
	if !ok {
		return "", entity.ErrUserNotFound
	}
	return id, nil
}

type fakeLeads struct {
	mu    sync.Mutex
	rows  map[string]entity.MappedLead
	err   error
	calls int
}

func newFakeLeads() *fakeLeads {
	return &fakeLeads{rows: map[string]entity.MappedLead{}}
}

func (f *fakeLeads) UpsertBatch(_ context.Context, leads []entity.MappedLead) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	for _, l := range leads {
		f.rows[l.CompanyID+"|"+l.Mobile] = l
	}
	return len(leads), nil
}

type fakeSyncLogs struct {
	mu      sync.Mutex
	entries []entity.SyncLogEntry
	err     error
}

func (f *fakeSyncLogs) Create(_ context.Context, e *entity.SyncLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeSyncLogs) ListByUser(_ context.Context, userID string, limit int) ([]entity.SyncLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.SyncLogEntry
	for i := len(f.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakeSheetConfigs struct {
	mu   sync.Mutex
	rows map[string]entity.SheetConfig
}

func (f *fakeSheetConfigs) FindByUserID(_ context.Context, userID string) (*entity.SheetConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.rows[userID]
	if !ok {
		return nil, entity.ErrSheetConfigNotFound
	}
	return &cfg, nil
}

func (f *fakeSheetConfigs) Save(_ context.Context, cfg *entity.SheetConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]entity.SheetConfig{}
	}
	cfg.UpdatedAt = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	f.rows[cfg.UserID] = *cfg
	return nil
}

func newServiceAccount(t *testing.T, tokenURI string) google.ServiceAccountKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	return google.ServiceAccountKey{
		ClientEmail: "sync@example.iam.gserviceaccount.com",
		PrivateKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		TokenURI:    tokenURI,
	}
}
