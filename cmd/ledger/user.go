package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"expense-ledger/internal/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newUserAddCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a login account",
		Long:  `Create a login account. The password is prompted for when --password is omitted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return fmt.Errorf("username cannot be empty")
			}

			if password == "" {
				fmt.Fprint(a.stdout, "Password: ")
				var err error
				password, err = readPassword(a.stdin)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(a.stdout) // Print newline after password input
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			// Check if user already exists
			if existing, err := db.GetUserByUsername(username); err == nil && existing != nil {
				return fmt.Errorf("user %s already exists", username)
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			user, err := db.CreateUser(username, hash)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			a.log.Info("user created", "user", user.Username, "id", user.ID)
			fmt.Fprintf(a.stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (optional, will prompt if omitted)")
	return cmd
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
