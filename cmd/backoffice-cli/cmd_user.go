package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/internal/dbpool"
	"github.com/brokeragehq/backoffice/internal/store"
)

// User provisioning talks to the database directly: operator accounts are
// administrative fixtures with no HTTP surface, so the command needs
// DATABASE_URL rather than a server URL.
func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator users (requires DATABASE_URL)",
	}
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func openUserStore(ctx context.Context) (*store.UserStore, func()) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_URL is required for user commands")
		os.Exit(1)
	}

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		fatal("connect database", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	return store.NewUserStore(store.Base{Pool: pool, Log: log}), pool.Close
}

func userAddCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an operator user and print their API key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			users, closePool := openUserStore(ctx)
			defer closePool()

			apiKey, err := generateAPIKey()
			if err != nil {
				fatal("generate api key", err)
			}

			u, err := users.CreateUser(ctx, args[0], role, apiKey)
			if err != nil {
				fatal("create user", err)
			}

			// The key is shown exactly once; only its hash is stored.
			fmt.Printf("user id: %s\n", u.ID)
			fmt.Printf("role:    %s\n", u.Role)
			fmt.Printf("api key: %s\n", apiKey)
		},
	}
	cmd.Flags().StringVar(&role, "role", "ops", "User role")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List operator users",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			users, closePool := openUserStore(ctx)
			defer closePool()

			list, err := users.ListUsers(ctx)
			if err != nil {
				fatal("list users", err)
			}

			headers := []string{"ID", "NAME", "ROLE", "CREATED"}
			var rows [][]string
			for _, u := range list {
				rows = append(rows, []string{u.ID, u.Name, u.Role, u.CreatedAt.Format("2006-01-02 15:04:05")})
			}
			formatTable(headers, rows)
		},
	}
}

// generateAPIKey returns a 32-byte random key in URL-safe base64.
func generateAPIKey() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return "bo_" + base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
