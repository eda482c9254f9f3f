package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"equipment-logbook/internal/lending"
)

var collateralsCmd = &cobra.Command{
	Use:   "collaterals",
	Short: "Manage collateral items",
}

var collateral lending.CollateralItem

var listCollateralsCmd = &cobra.Command{
	Use:   "list",
	Short: "List collateral items",
	Run: func(cmd *cobra.Command, args []string) {
		items := svc.Snapshot().Collaterals
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No collaterals recorded")
			return
		}
		rows := make([][]any, len(items))
		for i, c := range items {
			rows[i] = []any{c.ID, c.Name, c.Location, c.Quantity, c.Remarks}
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Location", "Quantity", "Remarks"}, rows)
	},
}

var createCollateralCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a collateral item",
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := svc.CreateCollateral(cmd.Context(), collateral)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", item.Name, item.ID)
		return nil
	},
}

var updateCollateralCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a collateral item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var current lending.CollateralItem
		found := false
		for _, c := range svc.Snapshot().Collaterals {
			if c.ID == args[0] {
				current, found = c, true
				break
			}
		}
		if !found {
			return lending.ErrNotFound
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			current.Name = collateral.Name
		}
		if flags.Changed("location") {
			current.Location = collateral.Location
		}
		if flags.Changed("quantity") {
			current.Quantity = collateral.Quantity
		}
		if flags.Changed("remarks") {
			current.Remarks = collateral.Remarks
		}
		if err := svc.UpdateCollateral(cmd.Context(), current); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Collateral updated")
		return nil
	},
}

var deleteCollateralCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a collateral item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteCollateral(cmd.Context(), args[0], stdinPrompter()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Collateral deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collateralsCmd)
	collateralsCmd.AddCommand(listCollateralsCmd, createCollateralCmd, updateCollateralCmd, deleteCollateralCmd)

	for _, c := range []*cobra.Command{createCollateralCmd, updateCollateralCmd} {
		c.Flags().StringVar(&collateral.Name, "name", "", "collateral name")
		c.Flags().StringVar(&collateral.Location, "location", "", "where the collateral is kept")
		c.Flags().IntVar(&collateral.Quantity, "quantity", 0, "number of units held")
		c.Flags().StringVar(&collateral.Remarks, "remarks", "", "free text remarks")
	}
}
