package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"Finary/internal/domain/audit"
	"Finary/internal/infrastructure"
	"Finary/internal/pkg"

	"github.com/spf13/cobra"
)

func auditCmd() *cobra.Command {
	var (
		userFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare each budget's spent with its expense history",
		Long: `Recomputes the expense total for every budget of a user inside one
read-only snapshot and prints the difference. Nothing is repaired.
Exits with status 2 when any budget has drifted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := pkg.ParseULID(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			svc := audit.NewService(infrastructure.NewAuditStore(infrastructure.NewUnitOfWork(db)))
			report, err := svc.Run(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else if err := printReport(out, report); err != nil {
				return err
			}

			if report.HasDrift() {
				return errDrift
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id (ULID)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printReport(out io.Writer, report *audit.Report) error {
	if len(report.Entries) == 0 {
		_, err := fmt.Fprintln(out, "no budgets")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUDGET\tCATEGORY\tPERIOD\tSPENT\tEXPECTED\tDRIFT")
	for _, e := range report.Entries {
		name := e.CategoryName
		if name == "" {
			name = e.CategoryId.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.BudgetId, name, e.Period,
			e.Spent.StringFixed(2), e.Expected.StringFixed(2), e.Drift.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "%d of %d budgets drifted\n", len(report.Drifted()), len(report.Entries))
	return err
}
