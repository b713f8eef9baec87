package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/infra/database"
	"github.com/xavierca1/leadsync/internal/infra/http/middleware"
	"github.com/xavierca1/leadsync/internal/infra/integration/google"
	"github.com/xavierca1/leadsync/internal/usecase"
)

func newRunCmd() *cobra.Command {
	var userID, sheetID, tabName string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sync for a user",
		Long: `Runs the same sync as POST /sync/google-sheets and prints the result.

Without --sheet and --tab the sheet saved in the user's integration config is used.`,
		Example: `  sheetsync run --user 6f1c... --sheet 1AbC... --tab Leads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (sheetID == "") != (tabName == "") {
				return errors.New("--sheet and --tab must be given together")
			}

			ctx := cmd.Context()
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := cfg.RequireSync(); err != nil {
				return err
			}

			if sheetID == "" {
				saved, err := database.NewSheetConfigRepository(db).FindByUserID(ctx, userID)
				if err != nil {
					if errors.Is(err, entity.ErrSheetConfigNotFound) {
						return errors.New("no saved sheet config for this user; pass --sheet and --tab")
					}
					return err
				}
				sheetID, tabName = saved.SheetID, saved.TabName
			}

			signer, err := google.NewCredentialSigner(*cfg.ServiceAccount)
			if err != nil {
				return err
			}
			var fetcherOpts []google.FetcherOption
			if cfg.SheetsEndpoint != "" {
				fetcherOpts = append(fetcherOpts, google.WithEndpoint(cfg.SheetsEndpoint))
			}

			uc := usecase.NewSyncGoogleSheetsUseCase(
				database.NewUserRepository(db),
				database.NewLeadRepository(db),
				database.NewSyncLogRepository(db),
				signer,
				google.NewSheetFetcher(fetcherOpts...),
				nil,
				middleware.NewRecorder(),
				cfg.SheetsScope,
			)

			out, err := uc.Execute(ctx, usecase.SyncInput{UserID: userID, SheetID: sheetID, TabName: tabName})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rows synced: %d\n", out.RowsSynced)
			fmt.Fprintf(w, "rows dropped: %d\n", out.Dropped)
			fmt.Fprintf(w, "duration: %s\n", out.Duration.Round(time.Millisecond))
			if out.Warning != "" {
				fmt.Fprintf(w, "warning: %s\n", out.Warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (tenant is resolved from the profile)")
	cmd.Flags().StringVar(&sheetID, "sheet", "", "spreadsheet id")
	cmd.Flags().StringVar(&tabName, "tab", "", "tab name")
	cmd.MarkFlagRequired("user")
	return cmd
}
