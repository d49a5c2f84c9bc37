package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"expense-ledger/internal/ledger"
	"expense-ledger/internal/models"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "add <amount> <category> [description...]",
		Short:   "Record an expense",
		Example: `  ledger add 12.50 food Lunch with Sam --date 2024-05-02`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(args[0])
			if err != nil {
				return err
			}
			day := models.DateOf(time.Now())
			if date != "" {
				if day, err = ledger.ParseDate(date); err != nil {
					return err
				}
			}
			category := strings.ToLower(strings.TrimSpace(args[1]))
			description := strings.Join(args[2:], " ")

			return a.withLedger(func(l *ledger.Ledger) error {
				e, err := l.AddExpense(description, amount, category, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Added expense %d: %s %s\n", e.ID, l.Currency().Format(e.Amount), e.Category)
				if l.Overspent() {
					fmt.Fprintf(a.stdout, "Warning: over budget by %s\n", l.Currency().Format(l.Remaining()))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date of the expense, YYYY-MM-DD (default today)")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			return a.withLedger(func(l *ledger.Ledger) error {
				before := len(l.Expenses())
				if err := l.DeleteExpense(id); err != nil {
					return err
				}
				if len(l.Expenses()) == before {
					fmt.Fprintf(a.stdout, "No expense with id %d\n", id)
					return nil
				}
				fmt.Fprintf(a.stdout, "Deleted expense %d\n", id)
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l *ledger.Ledger) error {
				return a.printMarkdown(renderExpenses(l))
			})
		},
	}
}

func newBudgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <amount>",
		Short: "Set the budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(args[0])
			if err != nil {
				return err
			}
			return a.withLedger(func(l *ledger.Ledger) error {
				if err := l.SetBudget(amount); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Budget set to %s\n", l.Currency().Format(l.Budget()))
				return nil
			})
		},
	}
}

func newCurrencyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "currency <code>",
		Short:     "Set the display currency",
		Args:      cobra.ExactArgs(1),
		ValidArgs: currencyCodes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l *ledger.Ledger) error {
				if err := l.SetCurrency(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Currency set to %s (%s)\n", l.Currency(), l.Currency().Symbol())
				return nil
			})
		},
	}
}

func currencyCodes() []string {
	codes := make([]string, 0, len(ledger.Currencies))
	for _, c := range ledger.Currencies {
		codes = append(codes, string(c))
	}
	return codes
}
