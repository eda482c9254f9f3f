package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"equipment-logbook/internal/export"
	"equipment-logbook/internal/lending"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List, approve and export logbook entries",
}

var (
	logsSearch string
	actor      string
	exportOut  string

	request lending.Request
)

var listLogsCmd = &cobra.Command{
	Use:   "list",
	Short: "List log entries, newest borrow date first",
	Run: func(cmd *cobra.Command, args []string) {
		logs := svc.Logs(logsSearch)
		if len(logs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No log entries found")
			return
		}
		printLogs(cmd, logs)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal entries: %d\n", len(logs))
	},
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Submit a request for one or more items",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := svc.SubmitRequest(cmd.Context(), request)
		if err != nil {
			return err
		}
		printLogs(cmd, created)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <PENDING|BORROWED|RETURNED>",
	Short: "Change the status of an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := lending.ParseStatus(args[1])
		if err != nil {
			return err
		}
		entry, err := svc.ChangeStatus(cmd.Context(), args[0], status, actor, stdinPrompter())
		if err != nil {
			return err
		}
		printLogs(cmd, []lending.LogEntry{entry})
		return nil
	},
}

var deleteLogCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry that is not on loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteEntry(cmd.Context(), args[0], stdinPrompter()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted")
		return nil
	},
}

var approveTodayCmd = &cobra.Command{
	Use:   "approve-today",
	Short: "Approve every pending request borrowed today",
	RunE: func(cmd *cobra.Command, args []string) error {
		pending := svc.PendingToday()
		if len(pending) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending requests for today")
			return nil
		}
		printLogs(cmd, pending)

		n, err := svc.ApproveToday(cmd.Context(), actor, stdinPrompter())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Approved %d request(s)\n", n)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every entry as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := exportOut
		if out == "" {
			out = export.Filename(cfg.Export.Filename, svc.Now())
		}
		w := cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := export.WriteLogs(w, svc.Snapshot().Logs, export.Options{BOM: cfg.Export.BOM}); err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", out)
		}
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show lending totals",
	Run: func(cmd *cobra.Command, args []string) {
		d := svc.Dashboard()
		renderTable(cmd.OutOrStdout(), []string{"Metric", "Value"}, [][]any{
			{"Total equipment", d.TotalEquipment},
			{"Items on loan", d.ItemsOnLoan},
			{"Available", d.Available()},
			{"Pending requests", d.PendingRequests},
			{"Overdue items", d.OverdueItems},
		})
		if len(d.MostBorrowedItems) > 0 {
			rows := make([][]any, len(d.MostBorrowedItems))
			for i, c := range d.MostBorrowedItems {
				rows[i] = []any{c.Label, c.Value}
			}
			renderTable(cmd.OutOrStdout(), []string{"Most borrowed", "Times"}, rows)
		}
	},
}

func printLogs(cmd *cobra.Command, logs []lending.LogEntry) {
	rows := make([][]any, len(logs))
	for i, e := range logs {
		rows[i] = []any{
			e.ID,
			e.Requestor,
			e.Item,
			e.Purpose,
			lending.FormatDate(e.BorrowDate),
			lending.FormatDate(e.ReturnDate),
			e.Status,
			e.ClearedBy,
		}
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "Requestor", "Item", "Purpose", "Borrow", "Return", "Status", "Cleared by"}, rows)
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return strings.TrimSpace(u)
	}
	return ""
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(listLogsCmd, requestCmd, statusCmd, deleteLogCmd, approveTodayCmd, exportCmd, dashboardCmd)

	listLogsCmd.Flags().StringVarP(&logsSearch, "search", "s", "", "only entries matching this text")

	requestCmd.Flags().StringVar(&request.Requestor, "requestor", "", "name of the person borrowing")
	requestCmd.Flags().StringVar(&request.Purpose, "purpose", "", "purpose of the loan")
	requestCmd.Flags().StringVar(&request.BorrowDate, "borrow", "", "borrow date (YYYY-MM-DD)")
	requestCmd.Flags().StringVar(&request.ReturnDate, "return", "", "return date (YYYY-MM-DD)")
	requestCmd.Flags().StringSliceVar(&request.Items, "item", nil, "item to borrow, repeatable")

	for _, c := range []*cobra.Command{statusCmd, approveTodayCmd} {
		c.Flags().StringVar(&actor, "as", defaultActor(), "administrator recorded as clearing the request")
	}

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", `output file, "-" for stdout (default <prefix>-YYYY-MM-DD.csv)`)
}
