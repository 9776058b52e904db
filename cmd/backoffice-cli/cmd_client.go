package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage brokerage clients",
	}
	cmd.AddCommand(clientCreateCmd())
	cmd.AddCommand(clientGetCmd())
	cmd.AddCommand(clientUpdateCmd())
	cmd.AddCommand(clientDeleteCmd())
	cmd.AddCommand(clientListCmd())
	cmd.AddCommand(clientHistoryCmd())
	return cmd
}

func clientCreateCmd() *cobra.Command {
	var name, email, phone, status, risk string
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a client",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateClientRequest{
				ID:          args[0],
				Name:        name,
				Email:       email,
				Phone:       phone,
				Status:      status,
				RiskProfile: risk,
			}
			rec, err := apiClient.Clients.Create(context.Background(), req)
			if err != nil {
				fatal("create client", err)
			}
			output(rec, rec.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Client name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|frozen|closed")
	cmd.Flags().StringVar(&risk, "risk", "", "Risk profile: conservative|moderate|aggressive")
	return cmd
}

func clientGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a client by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rec, err := apiClient.Clients.Get(context.Background(), args[0])
			if err != nil {
				fatal("get client", err)
			}
			output(rec, rec.ID)
		},
	}
}

func clientUpdateCmd() *cobra.Command {
	var ver, name, email, phone, status, risk string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a client (requires --version from the copy you read)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateClientRequest{Version: ver}
			if name != "" {
				req.Name = &name
			}
			if email != "" {
				req.Email = &email
			}
			if phone != "" {
				req.Phone = &phone
			}
			if status != "" {
				req.Status = &status
			}
			if risk != "" {
				req.RiskProfile = &risk
			}
			rec, err := apiClient.Clients.Update(context.Background(), args[0], req)
			if err != nil {
				if client.IsVersionConflict(err) {
					fatal("update client", fmt.Errorf("%w (re-read and retry with --version %s)", err, client.ConflictVersion(err)))
				}
				fatal("update client", err)
			}
			output(rec, rec.ID)
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&status, "status", "", "Status: active|frozen|closed")
	cmd.Flags().StringVar(&risk, "risk", "", "Risk profile")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func clientDeleteCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client (requires --version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Clients.Delete(context.Background(), args[0], ver); err != nil {
				fatal("delete client", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func clientListCmd() *cobra.Command {
	var status string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.ClientListOptions{Status: status, Limit: limit, Offset: offset}
			clients, err := apiClient.Clients.List(context.Background(), opts)
			if err != nil {
				fatal("list clients", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "EMAIL", "STATUS", "RISK"}
				var rows [][]string
				for _, c := range clients {
					rows = append(rows, []string{c.ID, c.Name, c.Email, c.Status, c.RiskProfile})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, c := range clients {
					formatQuiet(c.ID)
				}
				return
			}
			formatJSON(clients)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results offset")
	return cmd
}

func clientHistoryCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a client's change history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Clients.History(context.Background(), args[0], page, pageSize)
			if err != nil {
				fatal("client history", err)
			}
			printChangePage(result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}
