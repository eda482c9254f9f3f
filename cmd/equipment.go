package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"equipment-logbook/internal/config"
	"equipment-logbook/internal/labels"
	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/logbook"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Manage the equipment catalog",
}

var (
	equipmentItem lending.EquipmentItem
	labelOut      string
	labelSize     int
)

var listEquipmentCmd = &cobra.Command{
	Use:   "list",
	Short: "List the equipment catalog",
	Run: func(cmd *cobra.Command, args []string) {
		items := svc.Snapshot().Equipment
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No equipment in the catalog")
			return
		}
		rows := make([][]any, len(items))
		for i, e := range items {
			rows[i] = []any{e.ID, e.Name, e.ImageURL}
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Image URL"}, rows)
	},
}

var createEquipmentCmd = &cobra.Command{
	Use:   "create",
	Short: "Add an item to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := svc.CreateEquipment(cmd.Context(), equipmentItem)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", item.Name, item.ID)
		return nil
	},
}

var updateEquipmentCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename an item or change its image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := svc.Equipment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			current.Name = equipmentItem.Name
		}
		if cmd.Flags().Changed("image") {
			current.ImageURL = equipmentItem.ImageURL
		}
		if err := svc.UpdateEquipment(cmd.Context(), current); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Equipment updated")
		return nil
	},
}

var deleteEquipmentCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an item from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteEquipment(cmd.Context(), args[0], stdinPrompter()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Equipment deleted")
		return nil
	},
}

var importEquipmentCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Add every catalog item not yet present",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		items, err := logbook.ParseCatalog(f)
		if err != nil {
			return err
		}
		created, skipped, err := svc.ImportEquipment(cmd.Context(), items)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s), skipped %d existing\n", created, skipped)
		return nil
	},
}

var labelEquipmentCmd = &cobra.Command{
	Use:   "label <id>",
	Short: "Write a QR tag label for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := svc.Equipment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		png, err := labels.PNG(item.Name, labelSize)
		if err != nil {
			return err
		}
		out := labelOut
		if out == "" {
			out = fmt.Sprintf("%s.png", item.ID)
		}
		if err := os.WriteFile(out, png, 0644); err != nil {
			return fmt.Errorf("failed to write label: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Label for %s written to %s\n", item.Name, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(equipmentCmd)
	equipmentCmd.AddCommand(listEquipmentCmd, createEquipmentCmd, updateEquipmentCmd, deleteEquipmentCmd, importEquipmentCmd, labelEquipmentCmd)

	for _, c := range []*cobra.Command{createEquipmentCmd, updateEquipmentCmd} {
		c.Flags().StringVar(&equipmentItem.Name, "name", "", "item name")
		c.Flags().StringVar(&equipmentItem.ImageURL, "image", "", "image URL")
	}

	labelEquipmentCmd.Flags().StringVarP(&labelOut, "out", "o", "", "output file (default <id>.png)")
	labelEquipmentCmd.Flags().IntVar(&labelSize, "size", config.QR_IMAGE_SIZE, "label edge in pixels")
}
