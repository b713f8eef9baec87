package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/database"
)

func newLogsCmd() *cobra.Command {
	var (
		userID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent sync attempts of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := database.NewSyncLogRepository(db).ListByUser(ctx, userID, limit)
			if err != nil {
				return err
			}
			printLogs(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&limit, "limit", 20, "max entries (1-100)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func printLogs(cmd *cobra.Command, entries []entity.SyncLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sync attempts")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tROWS\tDURATION\tERROR")
	for _, e := range entries {
		msg := ""
		if e.ErrorMessage != nil {
			msg = *e.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%dms\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Status, e.RowsSynced, e.DurationMS, msg)
	}
	tw.Flush()
}
