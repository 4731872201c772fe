package session

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	kerrors "github.com/loganmanery/tuikit/internal/errors"
	"github.com/loganmanery/tuikit/pkg/models"
)

// BudgetApp is the namespace of the budget tracker
const BudgetApp = "budget-app"

// ExpenseFields is the column order of the expenses file
var ExpenseFields = []string{"serial", "date", "category", "amount", "description"}

const monthlyBudgetKey = "monthly_budget"

// warnPercent is the share of the budget past which a month is flagged
const warnPercent = 80.0

// topCategories is how many categories a Summary ranks
const topCategories = 3

// now is the clock expense dates are checked against
var now = time.Now

func (s *Session) expenses() table {
	return table{
		s:        s,
		filename: "expenses.csv",
		fields:   ExpenseFields,
		defaults: map[string]any{monthlyBudgetKey: 0.0, nextSerialKey: 1},
	}
}

// Expense is the input for a new expense row
type Expense struct {
	Date        string // YYYY-MM-DD
	Category    string
	Amount      float64
	Description string
}

// BudgetStatus classifies a month's spending against the budget
type BudgetStatus string

const (
	StatusNoBudget   BudgetStatus = "no-budget"
	StatusOnTrack    BudgetStatus = "on-track"
	StatusNearLimit  BudgetStatus = "near-limit"
	StatusOverBudget BudgetStatus = "over-budget"
)

// CategoryTotal is the amount spent in one category
type CategoryTotal struct {
	Category string
	Amount   float64
}

// Summary totals a month of expenses against the monthly budget
type Summary struct {
	Month       string
	Budget      float64
	Spent       float64
	Remaining   float64
	PercentUsed float64
	Status      BudgetStatus
	ByCategory  map[string]float64
	// Top holds the largest categories by amount, at most three
	Top []CategoryTotal
}

// Expenses returns the user's expenses, newest first
func (s *Session) Expenses() ([]models.Row, error) {
	return s.expenses().rows()
}

// AddExpense appends an expense and returns it with its serial
func (s *Session) AddExpense(e Expense) (models.Row, error) {
	row, err := e.row()
	if err != nil {
		return nil, err
	}
	return s.expenses().add(row)
}

// EditExpense replaces the fields of the expense with serial
func (s *Session) EditExpense(serial string, e Expense) (models.Row, error) {
	row, err := e.row()
	if err != nil {
		return nil, err
	}
	return s.expenses().update(serial, func(r models.Row) {
		for k, v := range row {
			r[k] = v
		}
	})
}

// row validates e and renders it in the on-disk encoding. The date must be
// YYYY-MM-DD and not in the future, the amount positive, the category set.
func (e Expense) row() (models.Row, error) {
	date := strings.TrimSpace(e.Date)
	if date == "" {
		return nil, fmt.Errorf("%w: expense date is required", kerrors.ErrInvalidInput)
	}
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", kerrors.ErrInvalidInput, date)
	}
	if parsed.After(today()) {
		return nil, fmt.Errorf("%w: date %s is in the future", kerrors.ErrInvalidInput, date)
	}
	if !(e.Amount > 0) {
		return nil, fmt.Errorf("%w: amount must be greater than 0", kerrors.ErrInvalidInput)
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: expense category is required", kerrors.ErrInvalidInput)
	}

	return models.Row{
		"date":        date,
		"category":    category,
		"amount":      strconv.FormatFloat(e.Amount, 'f', 2, 64),
		"description": strings.TrimSpace(e.Description),
	}, nil
}

// today is the current local date at midnight UTC, comparable with
// dates parsed by time.Parse
func today() time.Time {
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeleteExpense removes the expense with serial
func (s *Session) DeleteExpense(serial string) (models.Row, error) {
	return s.expenses().remove(serial)
}

// MonthlyBudget returns the configured monthly budget
func (s *Session) MonthlyBudget() (float64, error) {
	cfg, err := s.LoadConfig(s.expenses().defaults)
	if err != nil {
		return 0, err
	}
	return floatValue(cfg, monthlyBudgetKey, 0), nil
}

// SetMonthlyBudget stores the monthly budget in the user's config
func (s *Session) SetMonthlyBudget(amount float64) error {
	cfg, err := s.LoadConfig(s.expenses().defaults)
	if err != nil {
		return err
	}
	cfg[monthlyBudgetKey] = amount
	return s.SaveConfig(cfg)
}

// Summarize totals expenses whose date starts with month (YYYY-MM).
// Amounts that do not parse are skipped.
func (s *Session) Summarize(month string) (Summary, error) {
	budget, err := s.MonthlyBudget()
	if err != nil {
		return Summary{}, err
	}

	rows, err := s.Expenses()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Month: month, Budget: budget, ByCategory: map[string]float64{}}
	for _, r := range rows {
		if !strings.HasPrefix(r["date"], month) {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(r["amount"]), 64)
		if err != nil {
			continue
		}
		sum.Spent += amount
		sum.ByCategory[r["category"]] += amount
	}
	sum.Remaining = sum.Budget - sum.Spent

	switch {
	case sum.Budget <= 0:
		sum.Status = StatusNoBudget
	case sum.Remaining < 0:
		sum.PercentUsed = sum.Spent / sum.Budget * 100
		sum.Status = StatusOverBudget
	default:
		sum.PercentUsed = sum.Spent / sum.Budget * 100
		sum.Status = StatusOnTrack
		if sum.PercentUsed >= warnPercent {
			sum.Status = StatusNearLimit
		}
	}

	for c, amount := range sum.ByCategory {
		sum.Top = append(sum.Top, CategoryTotal{Category: c, Amount: amount})
	}
	// Ties break by name so the ranking is deterministic.
	sort.Slice(sum.Top, func(i, j int) bool {
		if sum.Top[i].Amount != sum.Top[j].Amount {
			return sum.Top[i].Amount > sum.Top[j].Amount
		}
		return sum.Top[i].Category < sum.Top[j].Category
	})
	if len(sum.Top) > topCategories {
		sum.Top = sum.Top[:topCategories]
	}
	return sum, nil
}
