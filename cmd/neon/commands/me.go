package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewMeCommand creates the me command.
func NewMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user",
		Long:  "Display the account the configured API key belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			me, err := client.Users().Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get current user: %w", err)
			}

			return render(cmd, propertyRenderer(func(u neon.CurrentUserInfo) [][]string {
				return [][]string{
					{"ID", u.ID},
					{"Email", deref(u.Email)},
					{"Login", deref(u.Login)},
					{"Name", deref(u.Name)},
					{"Plan", deref(u.Plan)},
					{"Projects Limit", deref(u.ProjectsLimit)},
					{"Branches Limit", deref(u.BranchesLimit)},
				}
			}), me.Record())
		},
	}
}
