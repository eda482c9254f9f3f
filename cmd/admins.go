package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage administrator accounts",
	Long:  `List, create and remove stored administrators. The fallback admin is configured in config.yaml and not listed here.`,
}

var (
	adminUsername string
	adminPassword string
)

var listAdminsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored administrators",
	Run: func(cmd *cobra.Command, args []string) {
		list := svc.Snapshot().Admins
		if len(list) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No stored admins, only the fallback admin %q can sign in\n", admins.FallbackUsername())
			return
		}
		rows := make([][]any, len(list))
		for i, a := range list {
			rows[i] = []any{a.ID, a.Username, a.CreatedAt.Format("2006-01-02 15:04")}
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Username", "Created"}, rows)
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, err := svc.CreateAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", admin.Username, admin.ID)
		return nil
	},
}

var passwdAdminCmd = &cobra.Command{
	Use:   "passwd <id>",
	Short: "Change the password of an administrator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.ChangeAdminPassword(cmd.Context(), args[0], adminPassword); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
		return nil
	},
}

var deleteAdminCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an administrator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.DeleteAdmin(cmd.Context(), args[0], stdinPrompter()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Admin deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminsCmd)
	adminsCmd.AddCommand(listAdminsCmd, createAdminCmd, passwdAdminCmd, deleteAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "login name, case sensitive")
	for _, c := range []*cobra.Command{createAdminCmd, passwdAdminCmd} {
		c.Flags().StringVar(&adminPassword, "password", "", "password")
		c.MarkFlagRequired("password")
	}
	createAdminCmd.MarkFlagRequired("username")
}
