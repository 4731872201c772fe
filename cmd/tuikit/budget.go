package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/loganmanery/tuikit/pkg/datafile"
	"github.com/loganmanery/tuikit/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the budget tracker",
	}

	var expense session.Expense
	addCmd := &cobra.Command{
		Use:   "add <amount> <category>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			expense.Amount = amount
			expense.Category = args[1]
			if expense.Date == "" {
				expense.Date = time.Now().Format(time.DateOnly)
			}

			s, done, err := login(session.BudgetApp)
			if err != nil {
				return err
			}
			defer done()

			row, err := s.AddExpense(expense)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added expense #%s: %s %s\n",
				color.GreenString("✓"), row["serial"], row["amount"], row["category"])
			return nil
		},
	}
	addUserFlag(addCmd)
	addCmd.Flags().StringVar(&expense.Date, "date", "", "expense date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&expense.Description, "description", "", "expense description")

	var edit session.Expense
	editCmd := &cobra.Command{
		Use:   "edit <serial> <amount> <category>",
		Short: "Replace an expense",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			edit.Amount = amount
			edit.Category = args[2]
			if edit.Date == "" {
				edit.Date = time.Now().Format(time.DateOnly)
			}

			s, done, err := login(session.BudgetApp)
			if err != nil {
				return err
			}
			defer done()

			row, err := s.EditExpense(args[0], edit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated expense #%s: %s %s\n",
				color.GreenString("✓"), row["serial"], row["amount"], row["category"])
			return nil
		},
	}
	addUserFlag(editCmd)
	editCmd.Flags().StringVar(&edit.Date, "date", "", "expense date (YYYY-MM-DD, default today)")
	editCmd.Flags().StringVar(&edit.Description, "description", "", "expense description")

	var ascending bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := login(session.BudgetApp)
			if err != nil {
				return err
			}
			defer done()

			expenses, err := s.Expenses()
			if err != nil {
				return err
			}
			if ascending {
				expenses = datafile.SortBySerial(expenses, datafile.DefaultSerialField, false)
			}

			out := cmd.OutOrStdout()
			if len(expenses) == 0 {
				fmt.Fprintln(out, "No expenses found.")
				return nil
			}

			fmt.Fprintln(out, "#    | Date       | Category     | Amount     | Description")
			fmt.Fprintln(out, "-----+------------+--------------+------------+----------------------")
			for _, e := range expenses {
				fmt.Fprintf(out, "%-4s | %-10s | %-12s | %10s | %s\n",
					e["serial"], e["date"], truncateString(e["category"], 12), e["amount"], truncateString(e["description"], 40))
			}
			return nil
		},
	}
	addUserFlag(listCmd)
	listCmd.Flags().BoolVar(&ascending, "ascending", false, "list oldest first")

	setBudgetCmd := &cobra.Command{
		Use:   "set-budget <amount>",
		Short: "Set the monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount < 0 {
				return fmt.Errorf("invalid budget %q", args[0])
			}

			s, done, err := login(session.BudgetApp)
			if err != nil {
				return err
			}
			defer done()

			if err := s.SetMonthlyBudget(amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Monthly budget set to %.2f\n", color.GreenString("✓"), amount)
			return nil
		},
	}
	addUserFlag(setBudgetCmd)

	var month string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show spending against the monthly budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = time.Now().Format("2006-01")
			}

			s, done, err := login(session.BudgetApp)
			if err != nil {
				return err
			}
			defer done()

			sum, err := s.Summarize(month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Month:     %s\n", sum.Month)
			fmt.Fprintf(out, "Budget:    %.2f\n", sum.Budget)
			fmt.Fprintf(out, "Spent:     %.2f\n", sum.Spent)
			remaining := fmt.Sprintf("%.2f", sum.Remaining)
			if sum.Remaining < 0 {
				remaining = color.RedString(remaining)
			} else {
				remaining = color.GreenString(remaining)
			}
			fmt.Fprintf(out, "Remaining: %s\n", remaining)
			fmt.Fprintf(out, "Status:    %s\n", statusText(sum))

			if len(sum.Top) > 0 {
				fmt.Fprintln(out, "Top categories:")
			}
			for _, c := range sum.Top {
				fmt.Fprintf(out, "  %-12s %10.2f\n", truncateString(c.Category, 12), c.Amount)
			}
			return nil
		},
	}
	addUserFlag(summaryCmd)
	summaryCmd.Flags().StringVar(&month, "month", "", "month to summarize (YYYY-MM, default current)")

	cmd.AddCommand(newRegisterCmd(session.BudgetApp))
	cmd.AddCommand(newImportUsersCmd(session.BudgetApp))
	cmd.AddCommand(addCmd)
	cmd.AddCommand(editCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(newDeleteCmd(session.BudgetApp, "expense", (*session.Session).DeleteExpense))
	cmd.AddCommand(setBudgetCmd)
	cmd.AddCommand(summaryCmd)
	return cmd
}

func statusText(sum session.Summary) string {
	switch sum.Status {
	case session.StatusOverBudget:
		return color.RedString("over budget by %.2f", -sum.Remaining)
	case session.StatusNearLimit:
		return color.YellowString("%.1f%% used (%.2f left)", sum.PercentUsed, sum.Remaining)
	case session.StatusOnTrack:
		return color.GreenString("%.2f remaining (%.1f%% left)", sum.Remaining, 100-sum.PercentUsed)
	}
	return "no budget set"
}
