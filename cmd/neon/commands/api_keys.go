package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewAPIKeysCommand creates the api-keys command group.
func NewAPIKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "api-keys",
		Aliases: []string{"api-key"},
		Short:   "Manage API keys",
		Long:    "List, create and revoke Neon API keys",
	}

	cmd.AddCommand(newAPIKeysListCommand())
	cmd.AddCommand(newAPIKeysCreateCommand())
	cmd.AddCommand(newAPIKeysRevokeCommand())

	return cmd
}

func newAPIKeysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			keys, err := client.APIKeys().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list API keys: %w", err)
			}

			return render(cmd, &OutputRenderer[[]neon.APIKey]{
				Header: []any{"ID", "Name", "Created", "Last Used", "Last Used From"},
				Rows: func(keys []neon.APIKey) [][]string {
					rows := make([][]string, 0, len(keys))
					for _, key := range keys {
						rows = append(rows, []string{
							key.ID.String(), key.Name, formatTime(key.CreatedAt),
							formatTime(key.LastUsedAt), deref(key.LastUsedFromAddr),
						})
					}

					return rows
				},
			}, keys.Items())
		},
	}
}

func newAPIKeysCreateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key",
		Long:  "Create an API key. The secret is shown once and cannot be retrieved later.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			created, err := client.APIKeys().Create(cmd.Context(), &neon.APIKeyCreateRequest{KeyName: name})
			if err != nil {
				return fmt.Errorf("failed to create API key: %w", err)
			}

			return render(cmd, propertyRenderer(func(k neon.APIKeyCreated) [][]string {
				return [][]string{
					{"ID", k.ID.String()},
					{"Name", k.Name},
					{"Key", k.Key},
					{"Created", formatTime(k.CreatedAt)},
				}
			}), created.Record())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name of the new key")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAPIKeysRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke KEY_ID",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			revoked, err := client.APIKeys().Revoke(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to revoke API key: %w", err)
			}

			return render(cmd, propertyRenderer(func(k neon.APIKeyRevoked) [][]string {
				return [][]string{
					{"ID", k.ID.String()},
					{"Name", k.Name},
					{"Revoked", formatBool(k.Revoked)},
				}
			}), revoked.Record())
		},
	}
}
