package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/loganmanery/tuikit/internal/errors"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("TUIKIT_DATA_DIR", dir)
	t.Setenv("TUIKIT_CREDENTIAL_BACKEND", "json")
	t.Setenv("TUIKIT_PASSWORD", "correct horse battery")
	return dir
}

func TestCLI_EncryptedTaskFlow(t *testing.T) {
	dir := setupCLI(t)

	out, err := runCLI(t, "tasks", "register", "--user", "alice", "--encrypt")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice with encrypted data")

	out, err = runCLI(t, "tasks", "add", "--user", "alice", "--notes", "two litres", "buy", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task #1: buy milk")

	out, err = runCLI(t, "tasks", "done", "--user", "alice", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task #1 marked done")

	out, err = runCLI(t, "tasks", "list", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "buy milk")
	assert.Contains(t, out, "[x]")

	_, err = os.Stat(filepath.Join(dir, "task-app", "alice_tasks.enc.csv"))
	assert.NoError(t, err)

	_, err = runCLI(t, "tasks", "register", "--user", "alice")
	assert.ErrorIs(t, err, kerrors.ErrUserExists)
}

func TestCLI_WrongPassword(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "budget", "register", "--user", "bob")
	require.NoError(t, err)

	t.Setenv("TUIKIT_PASSWORD", "not the password")
	_, err = runCLI(t, "budget", "list", "--user", "bob")
	assert.ErrorIs(t, err, kerrors.ErrInvalidCredentials)
	assert.Contains(t, errorText(err), "Invalid username or password")
}

func TestCLI_BudgetFlow(t *testing.T) {
	dir := setupCLI(t)

	_, err := runCLI(t, "budget", "register", "--user", "carol")
	require.NoError(t, err)

	_, err = runCLI(t, "budget", "set-budget", "--user", "carol", "100")
	require.NoError(t, err)

	out, err := runCLI(t, "budget", "add", "--user", "carol", "--date", "2026-10-02", "--description", "groceries", "42.5", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "Added expense #1: 42.50 food")

	out, err = runCLI(t, "budget", "summary", "--user", "carol", "--month", "2026-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Spent:     42.50")
	assert.Contains(t, out, "Remaining: 57.50")
	assert.Contains(t, out, "Status:    57.50 remaining (57.5% left)")
	assert.Contains(t, out, "Top categories:")

	_, err = runCLI(t, "budget", "add", "--user", "carol", "--date", "02/10/2026", "1", "food")
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
	_, err = runCLI(t, "budget", "add", "--user", "carol", "--date", "2999-01-01", "1", "food")
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
	_, err = runCLI(t, "budget", "add", "--user", "carol", "--date", "2026-10-02", "0", "food")
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)

	out, err = runCLI(t, "budget", "edit", "--user", "carol", "--date", "2026-10-03", "--description", "market", "1", "60", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated expense #1: 60.00 food")

	out, err = runCLI(t, "budget", "summary", "--user", "carol", "--month", "2026-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Spent:     60.00")

	// Plaintext users get plaintext files.
	raw, err := os.ReadFile(filepath.Join(dir, "budget-app", "carol_expenses.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "market")
}

func TestCLI_EditAndAscendingList(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "tasks", "register", "--user", "dana")
	require.NoError(t, err)
	_, err = runCLI(t, "tasks", "add", "--user", "dana", "--notes", "", "first")
	require.NoError(t, err)
	_, err = runCLI(t, "tasks", "add", "--user", "dana", "--notes", "", "second")
	require.NoError(t, err)

	out, err := runCLI(t, "tasks", "edit", "--user", "dana", "--notes", "renamed", "1", "first", "task")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task #1: first task")

	out, err = runCLI(t, "tasks", "list", "--user", "dana", "--ascending=false")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first task"))

	out, err = runCLI(t, "tasks", "list", "--user", "dana", "--ascending")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "first task"), strings.Index(out, "second"))
	assert.Contains(t, out, "renamed")

	_, err = runCLI(t, "tasks", "list", "--user", "dana", "--ascending=false")
	require.NoError(t, err)

	_, err = runCLI(t, "tasks", "edit", "--user", "dana", "9", "nothing")
	assert.ErrorIs(t, err, kerrors.ErrRecordNotFound)
}

func TestCLI_Version(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "日本語日本語日...", truncateString("日本語日本語日本語日本語", 10))
}
