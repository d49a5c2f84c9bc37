// Command ledger manages expense ledgers and user accounts from the terminal.
// It works on the same database as the web server.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"expense-ledger/internal/config"
	"expense-ledger/internal/ledger"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/storage"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	dbPath string
	user   string
	plain  bool

	cfg    *config.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout}

	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Expense ledger",
		Long:          `Record expenses, budgets and currencies per user, and manage login accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(stderr, cfg.LogLevel, cfg.LogFormat)
			if a.dbPath == "" {
				a.dbPath = cfg.DBPath
			}
			if a.user == "" {
				a.user = cfg.AdminUser
			}
			return nil
		},
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to database file (default from DB_PATH)")
	root.PersistentFlags().StringVarP(&a.user, "user", "u", "", "Owner of the ledger (default from ADMIN_USER)")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "Print raw markdown instead of styled output")

	root.AddCommand(
		newUserCmd(a),
		newAddCmd(a),
		newRmCmd(a),
		newListCmd(a),
		newBudgetCmd(a),
		newCurrencyCmd(a),
		newSummaryCmd(a),
	)

	return root.Execute()
}

func (a *app) openDB() (*storage.DB, error) {
	db, err := storage.NewDB(a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// withLedger opens the database, loads the ledger of the selected user and
// hands it to fn.
func (a *app) withLedger(fn func(l *ledger.Ledger) error) error {
	if a.user == "" {
		return errors.New("no user selected: pass --user or set ADMIN_USER")
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	l := ledger.Load(db, a.user,
		ledger.WithLogger(a.log),
		ledger.WithDefaultCurrency(a.cfg.Currency()),
	)
	if err := l.Err(); err != nil {
		return err
	}
	return fn(l)
}
