package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage brokerage accounts",
	}
	cmd.AddCommand(accountCreateCmd())
	cmd.AddCommand(accountGetCmd())
	cmd.AddCommand(accountUpdateCmd())
	cmd.AddCommand(accountDeleteCmd())
	cmd.AddCommand(accountListCmd())
	cmd.AddCommand(accountHistoryCmd())
	return cmd
}

func accountCreateCmd() *cobra.Command {
	var clientID, number, currency, accType, tariff, balance string
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Open an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateAccountRequest{
				ID:       args[0],
				ClientID: clientID,
				Number:   number,
				Currency: currency,
				Type:     accType,
				Tariff:   tariff,
				Balance:  balance,
			}
			acc, err := apiClient.Accounts.Create(context.Background(), req)
			if err != nil {
				fatal("create account", err)
			}
			output(acc, acc.ID)
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "Owning client ID (required)")
	cmd.Flags().StringVar(&number, "number", "", "Account number (required)")
	cmd.Flags().StringVar(&currency, "currency", "", "Account currency (required)")
	cmd.Flags().StringVar(&accType, "type", "", "Account type: cash|margin")
	cmd.Flags().StringVar(&tariff, "tariff", "", "Tariff plan")
	cmd.Flags().StringVar(&balance, "balance", "", "Opening balance (decimal string)")
	cmd.MarkFlagRequired("client")   //nolint:errcheck
	cmd.MarkFlagRequired("number")   //nolint:errcheck
	cmd.MarkFlagRequired("currency") //nolint:errcheck
	return cmd
}

func accountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			acc, err := apiClient.Accounts.Get(context.Background(), args[0])
			if err != nil {
				fatal("get account", err)
			}
			output(acc, acc.ID)
		},
	}
}

func accountUpdateCmd() *cobra.Command {
	var ver, status, tariff, balance string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account (requires --version from the copy you read)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateAccountRequest{Version: ver}
			if status != "" {
				req.Status = &status
			}
			if tariff != "" {
				req.Tariff = &tariff
			}
			if balance != "" {
				req.Balance = &balance
			}
			acc, err := apiClient.Accounts.Update(context.Background(), args[0], req)
			if err != nil {
				if client.IsVersionConflict(err) {
					fatal("update account", fmt.Errorf("%w (re-read and retry with --version %s)", err, client.ConflictVersion(err)))
				}
				fatal("update account", err)
			}
			output(acc, acc.ID)
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|blocked|closed")
	cmd.Flags().StringVar(&tariff, "tariff", "", "Tariff plan")
	cmd.Flags().StringVar(&balance, "balance", "", "New balance (decimal string)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func accountDeleteCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account (requires --version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Accounts.Delete(context.Background(), args[0], ver); err != nil {
				fatal("delete account", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func accountListCmd() *cobra.Command {
	var clientID, status string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AccountListOptions{ClientID: clientID, Status: status, Limit: limit, Offset: offset}
			accounts, err := apiClient.Accounts.List(context.Background(), opts)
			if err != nil {
				fatal("list accounts", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "CLIENT", "NUMBER", "CURRENCY", "STATUS", "BALANCE"}
				var rows [][]string
				for _, a := range accounts {
					rows = append(rows, []string{a.ID, a.ClientID, a.Number, a.Currency, a.Status, a.Balance})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, a := range accounts {
					formatQuiet(a.ID)
				}
				return
			}
			formatJSON(accounts)
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "Filter by owning client")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results offset")
	return cmd
}

func accountHistoryCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show an account's change history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Accounts.History(context.Background(), args[0], page, pageSize)
			if err != nil {
				fatal("account history", err)
			}
			printChangePage(result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}
