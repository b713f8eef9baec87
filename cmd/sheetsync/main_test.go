package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const localSecret = "local-dev-secret-with-32-bytes-or-more"

func TestTokenCommand(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", localSecret)
	t.Setenv("SESSION_AUDIENCE", "")

	out, err := execute(t, "token", "--user", "user-1", "--ttl", "5m")
	require.NoError(t, err)

	session, err := auth.NewSessionVerifier([]byte(localSecret), "").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "")
	_, err := execute(t, "token", "--user", "user-1")
	assert.ErrorContains(t, err, "SESSION_JWT_SECRET")
}

func TestTokenCommandRejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "local-secret")
	_, err := execute(t, "token", "--user", "user-1")
	assert.ErrorContains(t, err, "at least 32 bytes")
}

func TestRunRequiresUser(t *testing.T) {
	_, err := execute(t, "run", "--sheet", "abc", "--tab", "Leads")
	assert.ErrorContains(t, err, `required flag(s) "user" not set`)
}

func TestRunRejectsHalfSheetFlags(t *testing.T) {
	_, err := execute(t, "run", "--user", "u", "--sheet", "abc")
	assert.ErrorContains(t, err, "--sheet and --tab must be given together")
}

func TestPrintLogs(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printLogs(cmd, nil)
	assert.Equal(t, "no sync attempts\n", out.String())

	out.Reset()
	msg := "Failed to fetch sheet data: status 404"
	printLogs(cmd, []entity.SyncLogEntry{
		{Status: entity.SyncStatusError, DurationMS: 120, ErrorMessage: &msg, CreatedAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)},
		{Status: entity.SyncStatusSuccess, RowsSynced: 42, DurationMS: 900, CreatedAt: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "WHEN"))
	assert.Contains(t, lines[1], "2024-03-04T10:00:00Z")
	assert.Contains(t, lines[1], msg)
	assert.Contains(t, lines[2], "42")
}
