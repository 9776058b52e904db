package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/brokeragehq/backoffice/client"
)

func newChangesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Query the cross-entity change feed",
	}
	cmd.AddCommand(changesFeedCmd())
	cmd.AddCommand(changesGetCmd())
	cmd.AddCommand(changesExportCmd())
	return cmd
}

// changeFlags holds the shared feed filter flags.
type changeFlags struct {
	entityType string
	entityID   string
	actor      string
	changeType string
	label      string
	from       string
	to         string
}

func (f *changeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entityType, "entity-type", "", "Filter by entity type (client|account|instrument|order|transaction)")
	cmd.Flags().StringVar(&f.entityID, "entity-id", "", "Filter by entity ID")
	cmd.Flags().StringVar(&f.actor, "actor", "", "Filter by actor user ID ('system' for unattended changes)")
	cmd.Flags().StringVar(&f.changeType, "change-type", "", "Filter by change type (created|modified|deleted)")
	cmd.Flags().StringVar(&f.label, "label", "", "Filter by label substring (case-insensitive)")
	cmd.Flags().StringVar(&f.from, "from", "", "Start of time range (RFC 3339)")
	cmd.Flags().StringVar(&f.to, "to", "", "End of time range (RFC 3339)")
}

func (f *changeFlags) query() *client.ChangeQuery {
	q := &client.ChangeQuery{
		EntityType: f.entityType,
		EntityID:   f.entityID,
		Actor:      f.actor,
		ChangeType: f.changeType,
		Label:      f.label,
	}
	if f.from != "" {
		t, err := time.Parse(time.RFC3339, f.from)
		if err != nil {
			fatal("parse --from", err)
		}
		q.From = &t
	}
	if f.to != "" {
		t, err := time.Parse(time.RFC3339, f.to)
		if err != nil {
			fatal("parse --to", err)
		}
		q.To = &t
	}
	return q
}

func changesFeedCmd() *cobra.Command {
	var flags changeFlags
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the filtered change feed, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Changes.Feed(context.Background(), flags.query(), page, pageSize)
			if err != nil {
				fatal("change feed", err)
			}
			printChangePage(result)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Records per page")
	return cmd
}

func changesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get one change record by sequence number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fatal("parse id", err)
			}
			rec, err := apiClient.Changes.Get(context.Background(), id)
			if err != nil {
				fatal("get change record", err)
			}
			output(rec, strconv.FormatInt(rec.ID, 10))
		},
	}
}

func changesExportCmd() *cobra.Command {
	var flags changeFlags
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered feed to a file",
		Run: func(cmd *cobra.Command, args []string) {
			data, err := apiClient.Changes.Export(context.Background(), flags.query(), format)
			if err != nil {
				fatal("export changes", err)
			}
			if out == "" {
				out = "changes." + format
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				fatal("write export", err)
			}
			fmt.Printf("wrote %d bytes to %s\n", len(data), out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "export-format", "json", "Export format: json|xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default changes.<format>)")
	return cmd
}

// printChangePage renders a change page in the selected output format.
func printChangePage(page *client.ChangePage) {
	if flagFmt == "table" {
		headers := []string{"ID", "RECORDED", "ENTITY", "TYPE", "ACTOR", "LABEL", "FIELDS"}
		var rows [][]string
		for _, rec := range page.Items {
			actor := "system"
			if rec.Actor != nil {
				actor = *rec.Actor
			}
			rows = append(rows, []string{
				strconv.FormatInt(rec.ID, 10),
				rec.RecordedAt.Format(time.RFC3339),
				rec.EntityType + "/" + rec.EntityID,
				rec.ChangeType,
				actor,
				rec.Label,
				strconv.Itoa(len(rec.Changes)),
			})
		}
		formatTable(headers, rows)
		fmt.Printf("page %d of %d total records\n", page.Page, page.TotalCount)
		return
	}
	if flagFmt == "quiet" {
		for _, rec := range page.Items {
			formatQuiet(strconv.FormatInt(rec.ID, 10))
		}
		return
	}
	formatJSON(page)
}
