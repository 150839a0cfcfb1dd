package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/identity"
)

// ReportOptions holds the flags of the report command.
type ReportOptions struct {
	Format string // "json" | "text"
	User   string
}

// NewReportCommand prints the admin aggregates, or one user's view with --user.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print payment, debt and item statistics",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			return writeReport(cmd.OutOrStdout(), rt.app, *opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.Flags().StringVar(&opts.User, "user", "", "report on this username instead of everyone")

	return cmd
}

func writeReport(w io.Writer, app *dashboard.App, opts ReportOptions) error {
	if opts.User != "" {
		var found *identity.User
		for _, u := range app.Identity.Users() {
			if u.Username == opts.User {
				found = &u
				break
			}
		}
		if found == nil {
			return fmt.Errorf("unknown user %q", opts.User)
		}

		view := app.UserDashboard(*found)
		if opts.Format == "json" {
			return writeJSON(w, view)
		}
		return writeUserText(w, view)
	}

	view := app.AdminDashboard()
	if opts.Format == "json" {
		return writeJSON(w, view)
	}
	return writeAdminText(w, view)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUserText(w io.Writer, v dashboard.UserView) error {
	fmt.Fprintf(w, "Sales of %s\n", v.Username)
	fmt.Fprintf(w, "  paid:   %10.2f (%d sales)\n", v.Stats.TotalPaid, v.Stats.PaidCount)
	fmt.Fprintf(w, "  unpaid: %10.2f (%d sales)\n", v.Stats.TotalUnpaid, v.Stats.UnpaidCount)
	for _, d := range v.Daily {
		fmt.Fprintf(w, "  %s  paid %10.2f  unpaid %10.2f\n", d.Day, d.Paid, d.Unpaid)
	}
	return nil
}

func writeAdminText(w io.Writer, v dashboard.AdminView) error {
	fmt.Fprintf(w, "Total revenue: %.2f over %d sales\n", v.TotalRevenue, v.TotalSales)
	fmt.Fprintf(w, "  paid:   %10.2f (%d sales)\n", v.Stats.TotalPaid, v.Stats.PaidCount)
	fmt.Fprintf(w, "  unpaid: %10.2f (%d sales)\n", v.Stats.TotalUnpaid, v.Stats.UnpaidCount)

	fmt.Fprintln(w, "Payments by user:")
	for _, p := range v.Payments {
		fmt.Fprintf(w, "  %-16s %10.2f\n", p.Username, p.Total)
	}
	fmt.Fprintln(w, "Outstanding debt:")
	for _, d := range v.Debts {
		fmt.Fprintf(w, "  %-16s %10.2f\n", d.Username, d.Total)
	}
	fmt.Fprintln(w, "Top items:")
	for _, it := range v.TopItems {
		fmt.Fprintf(w, "  %-16s %6d  %10.2f\n", it.Item, it.Count, it.TotalValue)
	}
	return nil
}
