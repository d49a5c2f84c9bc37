package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"expense-ledger/internal/ledger"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, budget and spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l *ledger.Ledger) error {
				return a.printMarkdown(renderSummary(l))
			})
		},
	}
}

// printMarkdown writes md as is with --plain, styled for a terminal
// otherwise.
func (a *app) printMarkdown(md string) error {
	if a.plain {
		_, err := io.WriteString(a.stdout, md)
		return err
	}

	style := glamour.WithStandardStyle(styles.NoTTYStyle)
	if f, ok := a.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(a.stdout, out)
	return err
}

func renderSummary(l *ledger.Ledger) string {
	cur := l.Currency()
	var b strings.Builder

	fmt.Fprintf(&b, "# Expenses of %s\n\n", l.UserID())
	b.WriteString("| Total spent | Budget | Remaining |\n")
	b.WriteString("|---:|---:|---:|\n")
	remaining := cur.Format(l.Remaining())
	if l.Overspent() {
		remaining = "-" + remaining
	}
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n", cur.Format(l.TotalSpent()), cur.Format(l.Budget()), remaining)

	if l.Overspent() {
		fmt.Fprintf(&b, "> **Over budget by %s**\n\n", cur.Format(l.Remaining()))
	}

	b.WriteString("## By category\n\n")
	shares := l.Breakdown()
	if len(shares) == 0 {
		b.WriteString("No data to display\n")
		return b.String()
	}
	b.WriteString("| Category | Expenses | Amount | Share |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, s := range shares {
		fmt.Fprintf(&b, "| %s | %d | %s | %.1f%% |\n", ledger.Capitalize(s.Category), s.Count, cur.Format(s.Total), s.Percentage)
	}
	return b.String()
}

func renderExpenses(l *ledger.Ledger) string {
	cur := l.Currency()
	var b strings.Builder

	fmt.Fprintf(&b, "# Expenses of %s\n\n", l.UserID())
	expenses := l.Expenses()
	if len(expenses) == 0 {
		b.WriteString("No expenses yet.\n")
		return b.String()
	}
	b.WriteString("| ID | Date | Category | Description | Amount |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			e.ID, e.Date, ledger.Capitalize(e.Category), escapeCell(e.Description), cur.Format(e.Amount))
	}
	return b.String()
}

// escapeCell keeps free text from breaking a markdown table row.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
