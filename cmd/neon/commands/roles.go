package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewRolesCommand creates the roles command group.
func NewRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roles",
		Aliases: []string{"role"},
		Short:   "Manage Postgres roles",
		Long:    "List, create and delete the roles of a branch and manage their passwords",
	}

	cmd.AddCommand(newRolesListCommand())
	cmd.AddCommand(newRolesGetCommand())
	cmd.AddCommand(newRolesCreateCommand())
	cmd.AddCommand(newRolesDeleteCommand())
	cmd.AddCommand(newRolesRevealPasswordCommand())
	cmd.AddCommand(newRolesResetPasswordCommand())

	return cmd
}

var roleRows = &OutputRenderer[[]neon.Role]{
	Header: []any{"Name", "Branch", "Protected", "Created"},
	Rows: func(roles []neon.Role) [][]string {
		rows := make([][]string, 0, len(roles))
		for _, r := range roles {
			rows = append(rows, []string{r.Name, deref(r.BranchID), formatBool(r.Protected), formatTime(r.CreatedAt)})
		}

		return rows
	},
}

var roleOperationsDetail = propertyRenderer(func(r neon.RoleOperations) [][]string {
	return [][]string{
		{"Name", r.Role.Name},
		{"Branch", deref(r.Role.BranchID)},
		{"Password", deref(r.Role.Password)},
		{"Operations", formatOperations(r.Operations)},
	}
})

// maskRolePassword replaces the password of a mutation result unless show is set.
func maskRolePassword(result neon.RoleOperations, show bool) neon.RoleOperations {
	if result.Role.Password != nil && !show {
		masked := constants.RedactedPassword
		result.Role.Password = &masked
	}

	return result
}

func newRolesListCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			roles, err := client.Roles().List(cmd.Context(), projectID, branchID)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			return render(cmd, roleRows, roles.Items())
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}

func newRolesGetCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "get ROLE_NAME",
		Short: "Show a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			role, err := client.Roles().Get(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get role: %w", err)
			}

			return render(cmd, roleRows, []neon.Role{role.Record()})
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}

func newRolesCreateCommand() *cobra.Command {
	var (
		projectID, branchID string
		showPassword        bool
	)

	cmd := &cobra.Command{
		Use:   "create ROLE_NAME",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Roles().Create(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to create role: %w", err)
			}

			return render(cmd, roleOperationsDetail, maskRolePassword(result.Record(), showPassword))
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "print the generated password")

	return cmd
}

func newRolesDeleteCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "delete ROLE_NAME",
		Short: "Delete a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Roles().Delete(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete role: %w", err)
			}

			return render(cmd, roleOperationsDetail, maskRolePassword(result.Record(), false))
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}

func newRolesRevealPasswordCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "reveal-password ROLE_NAME",
		Short: "Print the password of a role",
		Long:  "Print the stored password of a role. Only works for projects that store passwords.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			password, err := client.Roles().RevealPassword(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to reveal password: %w", err)
			}

			return render(cmd, propertyRenderer(func(p neon.RolePassword) [][]string {
				return [][]string{{"Password", p.Password}}
			}), password.Record())
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}

func newRolesResetPasswordCommand() *cobra.Command {
	var (
		projectID, branchID string
		showPassword        bool
	)

	cmd := &cobra.Command{
		Use:   "reset-password ROLE_NAME",
		Short: "Generate a new password for a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Roles().ResetPassword(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to reset password: %w", err)
			}

			return render(cmd, roleOperationsDetail, maskRolePassword(result.Record(), showPassword))
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "print the new password")

	return cmd
}
