package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage trade orders",
	}
	cmd.AddCommand(orderCreateCmd())
	cmd.AddCommand(orderGetCmd())
	cmd.AddCommand(orderUpdateCmd())
	cmd.AddCommand(orderDeleteCmd())
	cmd.AddCommand(orderListCmd())
	cmd.AddCommand(orderHistoryCmd())
	return cmd
}

func orderCreateCmd() *cobra.Command {
	var accountID, instrumentID, side, price string
	var quantity int64
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Book an order",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateOrderRequest{
				ID:           args[0],
				AccountID:    accountID,
				InstrumentID: instrumentID,
				Side:         side,
				Quantity:     quantity,
				Price:        price,
			}
			ord, err := apiClient.Orders.Create(context.Background(), req)
			if err != nil {
				fatal("create order", err)
			}
			output(ord, ord.ID)
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (required)")
	cmd.Flags().StringVar(&instrumentID, "instrument", "", "Instrument ID (required)")
	cmd.Flags().StringVar(&side, "side", "", "Side: buy|sell (required)")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Quantity (required)")
	cmd.Flags().StringVar(&price, "price", "", "Limit price (decimal string, required)")
	cmd.MarkFlagRequired("account")    //nolint:errcheck
	cmd.MarkFlagRequired("instrument") //nolint:errcheck
	cmd.MarkFlagRequired("side")       //nolint:errcheck
	cmd.MarkFlagRequired("quantity")   //nolint:errcheck
	cmd.MarkFlagRequired("price")      //nolint:errcheck
	return cmd
}

func orderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an order by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ord, err := apiClient.Orders.Get(context.Background(), args[0])
			if err != nil {
				fatal("get order", err)
			}
			output(ord, ord.ID)
		},
	}
}

func orderUpdateCmd() *cobra.Command {
	var ver, status, price string
	var quantity int64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an order (requires --version from the copy you read)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateOrderRequest{Version: ver}
			if status != "" {
				req.Status = &status
			}
			if price != "" {
				req.Price = &price
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &quantity
			}
			ord, err := apiClient.Orders.Update(context.Background(), args[0], req)
			if err != nil {
				if client.IsVersionConflict(err) {
					fatal("update order", fmt.Errorf("%w (re-read and retry with --version %s)", err, client.ConflictVersion(err)))
				}
				fatal("update order", err)
			}
			output(ord, ord.ID)
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.Flags().StringVar(&status, "status", "", "Status: new|filled|cancelled|rejected")
	cmd.Flags().StringVar(&price, "price", "", "Limit price (decimal string)")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Quantity")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func orderDeleteCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order (requires --version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Orders.Delete(context.Background(), args[0], ver); err != nil {
				fatal("delete order", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func orderListCmd() *cobra.Command {
	var accountID, instrumentID, status string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.OrderListOptions{
				AccountID:    accountID,
				InstrumentID: instrumentID,
				Status:       status,
				Limit:        limit,
				Offset:       offset,
			}
			orders, err := apiClient.Orders.List(context.Background(), opts)
			if err != nil {
				fatal("list orders", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "ACCOUNT", "INSTRUMENT", "SIDE", "QTY", "PRICE", "STATUS"}
				var rows [][]string
				for _, o := range orders {
					rows = append(rows, []string{
						o.ID, o.AccountID, o.InstrumentID, o.Side,
						strconv.FormatInt(o.Quantity, 10), o.Price, o.Status,
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, o := range orders {
					formatQuiet(o.ID)
				}
				return
			}
			formatJSON(orders)
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Filter by account")
	cmd.Flags().StringVar(&instrumentID, "instrument", "", "Filter by instrument")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results offset")
	return cmd
}

func orderHistoryCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show an order's change history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Orders.History(context.Background(), args[0], page, pageSize)
			if err != nil {
				fatal("order history", err)
			}
			printChangePage(result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}
