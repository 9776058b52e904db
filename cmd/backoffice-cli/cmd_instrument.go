package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newInstrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Manage tradeable instruments",
	}
	cmd.AddCommand(instrumentCreateCmd())
	cmd.AddCommand(instrumentGetCmd())
	cmd.AddCommand(instrumentUpdateCmd())
	cmd.AddCommand(instrumentDeleteCmd())
	cmd.AddCommand(instrumentListCmd())
	cmd.AddCommand(instrumentHistoryCmd())
	return cmd
}

func instrumentCreateCmd() *cobra.Command {
	var symbol, isin, name, insType, currency string
	var lotSize int
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "List an instrument",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateInstrumentRequest{
				ID:       args[0],
				Symbol:   symbol,
				ISIN:     isin,
				Name:     name,
				Type:     insType,
				Currency: currency,
				LotSize:  lotSize,
			}
			ins, err := apiClient.Instruments.Create(context.Background(), req)
			if err != nil {
				fatal("create instrument", err)
			}
			output(ins, ins.ID)
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol (required)")
	cmd.Flags().StringVar(&isin, "isin", "", "ISIN code")
	cmd.Flags().StringVar(&name, "name", "", "Instrument name (required)")
	cmd.Flags().StringVar(&insType, "type", "", "Type: equity|bond|etf|future (required)")
	cmd.Flags().StringVar(&currency, "currency", "", "Trading currency (required)")
	cmd.Flags().IntVar(&lotSize, "lot-size", 0, "Lot size")
	cmd.MarkFlagRequired("symbol")   //nolint:errcheck
	cmd.MarkFlagRequired("name")     //nolint:errcheck
	cmd.MarkFlagRequired("type")     //nolint:errcheck
	cmd.MarkFlagRequired("currency") //nolint:errcheck
	return cmd
}

func instrumentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an instrument by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ins, err := apiClient.Instruments.Get(context.Background(), args[0])
			if err != nil {
				fatal("get instrument", err)
			}
			output(ins, ins.ID)
		},
	}
}

func instrumentUpdateCmd() *cobra.Command {
	var ver, name, status string
	var lotSize int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an instrument (requires --version from the copy you read)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateInstrumentRequest{Version: ver}
			if name != "" {
				req.Name = &name
			}
			if status != "" {
				req.Status = &status
			}
			if cmd.Flags().Changed("lot-size") {
				req.LotSize = &lotSize
			}
			ins, err := apiClient.Instruments.Update(context.Background(), args[0], req)
			if err != nil {
				if client.IsVersionConflict(err) {
					fatal("update instrument", fmt.Errorf("%w (re-read and retry with --version %s)", err, client.ConflictVersion(err)))
				}
				fatal("update instrument", err)
			}
			output(ins, ins.ID)
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.Flags().StringVar(&name, "name", "", "Instrument name")
	cmd.Flags().StringVar(&status, "status", "", "Status: trading|halted|delisted")
	cmd.Flags().IntVar(&lotSize, "lot-size", 0, "Lot size")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func instrumentDeleteCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an instrument (requires --version)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Instruments.Delete(context.Background(), args[0], ver); err != nil {
				fatal("delete instrument", err)
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().StringVar(&ver, "version", "", "Version token (required)")
	cmd.MarkFlagRequired("version") //nolint:errcheck
	return cmd
}

func instrumentListCmd() *cobra.Command {
	var status, insType string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.InstrumentListOptions{Status: status, Type: insType, Limit: limit, Offset: offset}
			instruments, err := apiClient.Instruments.List(context.Background(), opts)
			if err != nil {
				fatal("list instruments", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "SYMBOL", "NAME", "TYPE", "STATUS", "LOT"}
				var rows [][]string
				for _, i := range instruments {
					rows = append(rows, []string{i.ID, i.Symbol, i.Name, i.Type, i.Status, strconv.Itoa(i.LotSize)})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, i := range instruments {
					formatQuiet(i.ID)
				}
				return
			}
			formatJSON(instruments)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&insType, "type", "", "Filter by type")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Results offset")
	return cmd
}

func instrumentHistoryCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show an instrument's change history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Instruments.History(context.Background(), args[0], page, pageSize)
			if err != nil {
				fatal("instrument history", err)
			}
			printChangePage(result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}
