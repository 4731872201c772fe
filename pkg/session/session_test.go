package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/internal/paths"
	"github.com/loganmanery/tuikit/internal/storage"
	"github.com/loganmanery/tuikit/pkg/auth"
	"github.com/loganmanery/tuikit/pkg/datafile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	provider auth.Provider
	paths    paths.Paths
	codec    *datafile.Codec
	root     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fixClock(t, time.Date(2026, time.October, 17, 15, 0, 0, 0, time.Local))
	root := t.TempDir()
	return fixture{
		provider: auth.NewMemoryAuth(),
		paths:    paths.New(root),
		codec:    datafile.NewCodec(),
		root:     root,
	}
}

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.provider.CreateUser("alice", "secret", false))

	_, err := Login(f.provider, f.paths, f.codec, TaskApp, "alice", "nope")
	assert.ErrorIs(t, err, kerrors.ErrInvalidCredentials)

	_, err = Login(f.provider, f.paths, f.codec, TaskApp, "ghost", "secret")
	assert.ErrorIs(t, err, kerrors.ErrInvalidCredentials)
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", false)
	require.NoError(t, err)

	_, err = Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", false)
	assert.ErrorIs(t, err, kerrors.ErrUserExists)
}

func TestTasks_PlaintextSession(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", false)
	require.NoError(t, err)
	assert.False(t, s.Encrypted())
	assert.Nil(t, s.Password())

	first, err := s.AddTask("buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, "1", first["serial"])

	second, err := s.AddTask("file taxes", "by april")
	require.NoError(t, err)
	assert.Equal(t, "2", second["serial"])

	tasks, err := s.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "file taxes", tasks[0]["title"])
	assert.False(t, TaskDone(tasks[0]))

	require.NoError(t, s.SetDone("1", true))
	tasks, err = s.Tasks()
	require.NoError(t, err)
	assert.True(t, TaskDone(tasks[1]))

	_, err = os.Stat(filepath.Join(f.root, TaskApp, "alice_tasks.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.root, TaskApp, "alice_config.json"))
	assert.NoError(t, err)
}

func TestTasks_SerialsNotReusedAfterDelete(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", false)
	require.NoError(t, err)

	_, err = s.AddTask("a", "")
	require.NoError(t, err)
	_, err = s.AddTask("b", "")
	require.NoError(t, err)

	removed, err := s.DeleteTask("2")
	require.NoError(t, err)
	assert.Equal(t, "b", removed["title"])

	third, err := s.AddTask("c", "")
	require.NoError(t, err)
	assert.Equal(t, "3", third["serial"])

	_, err = s.DeleteTask("42")
	assert.ErrorIs(t, err, kerrors.ErrRecordNotFound)
	assert.ErrorIs(t, s.SetDone("42", true), kerrors.ErrRecordNotFound)
}

func TestTasks_EncryptedSession(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, TaskApp, "bob", "hunter2", true)
	require.NoError(t, err)
	assert.True(t, s.Encrypted())

	_, err = s.AddTask("secret plan", "world domination")
	require.NoError(t, err)

	encPath := filepath.Join(f.root, TaskApp, "bob_tasks.enc.csv")
	raw, err := os.ReadFile(encPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret plan")

	_, err = os.Stat(filepath.Join(f.root, TaskApp, "bob_config.enc.json"))
	assert.NoError(t, err)

	// A fresh login sees the same data.
	again, err := Login(f.provider, f.paths, f.codec, TaskApp, "bob", "hunter2")
	require.NoError(t, err)
	tasks, err := again.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "world domination", tasks[0]["notes"])

	// Reading the encrypted file without the password is a caller bug.
	_, err = f.codec.LoadTable(encPath, nil)
	assert.ErrorIs(t, err, kerrors.ErrMissingPassword)
}

func TestBudget_Summary(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, BudgetApp, "carol", "pw", true)
	require.NoError(t, err)

	budget, err := s.MonthlyBudget()
	require.NoError(t, err)
	assert.Equal(t, 0.0, budget)

	require.NoError(t, s.SetMonthlyBudget(500))

	for _, e := range []Expense{
		{Date: "2026-10-01", Category: "food", Amount: 12.5, Description: "lunch"},
		{Date: "2026-10-03", Category: "rent", Amount: 400},
		{Date: "2026-09-28", Category: "food", Amount: 30},
		{Date: "2026-10-09", Category: "food", Amount: 7.25},
	} {
		_, err := s.AddExpense(e)
		require.NoError(t, err)
	}

	expenses, err := s.Expenses()
	require.NoError(t, err)
	require.Len(t, expenses, 4)
	assert.Equal(t, "4", expenses[0]["serial"])
	assert.Equal(t, "7.25", expenses[0]["amount"])

	sum, err := s.Summarize("2026-10")
	require.NoError(t, err)
	assert.Equal(t, 500.0, sum.Budget)
	assert.InDelta(t, 419.75, sum.Spent, 1e-9)
	assert.InDelta(t, 80.25, sum.Remaining, 1e-9)
	assert.InDelta(t, 19.75, sum.ByCategory["food"], 1e-9)
	assert.InDelta(t, 83.95, sum.PercentUsed, 1e-9)
	assert.Equal(t, StatusNearLimit, sum.Status)
	require.Len(t, sum.Top, 2)
	assert.Equal(t, "rent", sum.Top[0].Category)
	assert.Equal(t, "food", sum.Top[1].Category)

	_, err = s.DeleteExpense("2")
	require.NoError(t, err)
	sum, err = s.Summarize("2026-10")
	require.NoError(t, err)
	assert.InDelta(t, 19.75, sum.Spent, 1e-9)

	_, err = s.AddExpense(Expense{Amount: 1})
	assert.Error(t, err)
}

func TestSession_WithBcryptAuth(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root)
	usersPath, err := p.UsersDBPath(TaskApp)
	require.NoError(t, err)
	provider := auth.NewBcryptAuth(TaskApp, storage.NewJSONStore(usersPath), auth.WithCost(bcrypt.MinCost))

	s, err := Register(provider, p, datafile.NewCodec(), TaskApp, "dave", "pw", true)
	require.NoError(t, err)
	_, err = s.AddTask("x", "")
	require.NoError(t, err)

	_, err = Login(provider, p, datafile.NewCodec(), TaskApp, "dave", "wrong")
	assert.ErrorIs(t, err, kerrors.ErrInvalidCredentials)
}

func TestTasks_DoneWrittenLowercase(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", false)
	require.NoError(t, err)

	_, err = s.AddTask("a", "")
	require.NoError(t, err)
	path := filepath.Join(f.root, TaskApp, "alice_tasks.csv")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "serial,title,notes,done\n1,a,,false\n", string(raw))

	require.NoError(t, s.SetDone("1", true))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "serial,title,notes,done\n1,a,,true\n", string(raw))
}

func TestTaskDone(t *testing.T) {
	assert.True(t, TaskDone(map[string]string{"done": "true"}))
	assert.True(t, TaskDone(map[string]string{"done": "True"}))
	assert.False(t, TaskDone(map[string]string{"done": "false"}))
	assert.False(t, TaskDone(map[string]string{}))
}

func TestTasks_Edit(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, TaskApp, "alice", "secret", true)
	require.NoError(t, err)

	_, err = s.AddTask("draft", "old notes")
	require.NoError(t, err)
	require.NoError(t, s.SetDone("1", true))

	row, err := s.EditTask("1", "  final  ", "new notes")
	require.NoError(t, err)
	assert.Equal(t, "1", row["serial"])
	assert.Equal(t, "final", row["title"])

	tasks, err := s.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "final", tasks[0]["title"])
	assert.Equal(t, "new notes", tasks[0]["notes"])
	assert.True(t, TaskDone(tasks[0]))

	_, err = s.EditTask("1", "   ", "")
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
	_, err = s.EditTask("9", "x", "")
	assert.ErrorIs(t, err, kerrors.ErrRecordNotFound)
	_, err = s.AddTask("", "notes only")
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
}

func TestAddExpense_Validation(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, BudgetApp, "carol", "pw", false)
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		e    Expense
	}{
		{"missing date", Expense{Category: "food", Amount: 1}},
		{"bad date format", Expense{Date: "not-a-date", Category: "food", Amount: 1}},
		{"day first date", Expense{Date: "17/10/2026", Category: "food", Amount: 1}},
		{"future date", Expense{Date: "2026-10-18", Category: "food", Amount: 1}},
		{"far future date", Expense{Date: "2999-01-01", Category: "food", Amount: 1}},
		{"zero amount", Expense{Date: "2026-10-01", Category: "food", Amount: 0}},
		{"negative amount", Expense{Date: "2026-10-01", Category: "food", Amount: -50}},
		{"missing category", Expense{Date: "2026-10-01", Category: " ", Amount: 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddExpense(tc.e)
			assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
		})
	}

	expenses, err := s.Expenses()
	require.NoError(t, err)
	assert.Empty(t, expenses)

	// Today is allowed.
	row, err := s.AddExpense(Expense{Date: "2026-10-17", Category: "food", Amount: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "0.50", row["amount"])
}

func TestEditExpense(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, BudgetApp, "carol", "pw", false)
	require.NoError(t, err)

	_, err = s.AddExpense(Expense{Date: "2026-10-01", Category: "food", Amount: 10, Description: "lunch"})
	require.NoError(t, err)
	_, err = s.AddExpense(Expense{Date: "2026-10-02", Category: "rent", Amount: 400})
	require.NoError(t, err)

	row, err := s.EditExpense("1", Expense{Date: "2026-10-03", Category: "transport", Amount: 12.3})
	require.NoError(t, err)
	assert.Equal(t, "1", row["serial"])

	expenses, err := s.Expenses()
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, map[string]string{
		"serial":      "1",
		"date":        "2026-10-03",
		"category":    "transport",
		"amount":      "12.30",
		"description": "",
	}, map[string]string(expenses[1]))

	_, err = s.EditExpense("2", Expense{Date: "2026-10-02", Category: "rent", Amount: -1})
	assert.ErrorIs(t, err, kerrors.ErrInvalidInput)
	_, err = s.EditExpense("7", Expense{Date: "2026-10-02", Category: "rent", Amount: 1})
	assert.ErrorIs(t, err, kerrors.ErrRecordNotFound)
}

func TestSummarize_Status(t *testing.T) {
	f := newFixture(t)
	s, err := Register(f.provider, f.paths, f.codec, BudgetApp, "erin", "pw", false)
	require.NoError(t, err)

	for _, e := range []Expense{
		{Date: "2026-10-01", Category: "food", Amount: 10},
		{Date: "2026-10-02", Category: "fun", Amount: 30},
		{Date: "2026-10-03", Category: "bills", Amount: 20},
		{Date: "2026-10-04", Category: "misc", Amount: 5},
	} {
		_, err := s.AddExpense(e)
		require.NoError(t, err)
	}

	sum, err := s.Summarize("2026-10")
	require.NoError(t, err)
	assert.Equal(t, StatusNoBudget, sum.Status)
	assert.Equal(t, []CategoryTotal{
		{Category: "fun", Amount: 30},
		{Category: "bills", Amount: 20},
		{Category: "food", Amount: 10},
	}, sum.Top)

	require.NoError(t, s.SetMonthlyBudget(200))
	sum, err = s.Summarize("2026-10")
	require.NoError(t, err)
	assert.Equal(t, StatusOnTrack, sum.Status)
	assert.InDelta(t, 32.5, sum.PercentUsed, 1e-9)

	require.NoError(t, s.SetMonthlyBudget(50))
	sum, err = s.Summarize("2026-10")
	require.NoError(t, err)
	assert.Equal(t, StatusOverBudget, sum.Status)
	assert.InDelta(t, -15, sum.Remaining, 1e-9)
}
