package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage cash transactions",
	}
	cmd.AddCommand(txCreateCmd())
	cmd.AddCommand(txGetCmd())
	cmd.AddCommand(txUpdateCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txHistoryCmd())
	return cmd
}

func txCreateCmd() *cobra.Command {
	var accountID, txType, amount, currency string
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Book a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateTransactionRequest{
				ID:        args[0],
				AccountID: accountID,
				Type:      txType,
				Amount:    amount,
				Currency:  currency,
			}
			tx, err := apiClient.Transactions.Create(context.Background(), req)
			if err != nil {
				fatal("create transaction", err)
			}
			output(tx, tx.ID)
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (required)")
	cmd.Flags().StringVar(&txType, "type", "", "Type: deposit|withdrawal|fee|trade (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount (decimal string, required)")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency (required)")
	cmd.MarkFlagRequired("account")  //nolint:errcheck
	cmd.MarkFlagRequired("type")     //nolint:errcheck
	cmd.MarkFlagRequired("amount")   //nolint:errcheck
	cmd.MarkFlagRequired("currency") //nolint:errcheck
	return cmd
}

func txGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a transaction by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tx, err := apiClient.Transactions.Get(context.Background(), args[0])
			if err != nil {
				fatal("get transaction", err)
			}
			output(tx, tx.ID)
		},
	}
}

func txUpdateCmd() *cobra.Command {
	var ver, status, settledAt string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a transaction (requires --version from the copy you read)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateTransactionRequest{Version: ver}
			if status != "" {
				req.Status = &status
			}
			if settledAt != "" {
				t, err := time.Parse(time.RFC3339, settledAt)
				if err != nil {
					fatal("parse settled-at", err)
				}
				req.SettledAt = &t
			}
			tx, err := apiClient.Transactions.Update(context.Background(), args[0], req)
			if err != nil {
				if client.IsVersionConflict(err) {
					fatal("update transaction", fmt.Errorf("%w (re-read and retry with --version %s)", err, client.ConflictVersion(err)))
				}
				fatal("update transaction", err)
			}
			output(tx, tx.ID)
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.Flags().StringVar(&status, "status", "", "Status: pending|settled|failed")
	cmd.Flags().StringVar(&settledAt, "settled-at", "", "Settlement time (RFC 3339)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func txDeleteCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction (requires --version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Transactions.Delete(context.Background(), args[0], ver); err != nil {
				fatal("delete transaction", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func txListCmd() *cobra.Command {
	var accountID, txType, status string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.TransactionListOptions{
				AccountID: accountID,
				Type:      txType,
				Status:    status,
				Limit:     limit,
				Offset:    offset,
			}
			txs, err := apiClient.Transactions.List(context.Background(), opts)
			if err != nil {
				fatal("list transactions", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACCOUNT", "TYPE", "AMOUNT", "CURRENCY", "STATUS"}
				var rows [][]string
				for _, tx := range txs {
					rows = append(rows, []string{tx.ID, tx.AccountID, tx.Type, tx.Amount, tx.Currency, tx.Status})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, tx := range txs {
					formatQuiet(tx.ID)
				}
				return
			}
			formatJSON(txs)
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Filter by account")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by type")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results offset")
	return cmd
}

func txHistoryCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a transaction's change history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Transactions.History(context.Background(), args[0], page, pageSize)
			if err != nil {
				fatal("transaction history", err)
			}
			printChangePage(result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}
