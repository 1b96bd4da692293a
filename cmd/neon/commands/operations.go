package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewOperationsCommand creates the operations command group.
func NewOperationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"operation", "ops"},
		Short:   "Inspect project operations",
		Long:    "List and inspect the asynchronous operations started by project mutations",
	}

	cmd.AddCommand(newOperationsListCommand())
	cmd.AddCommand(newOperationsGetCommand())

	return cmd
}

func newOperationsListCommand() *cobra.Command {
	var (
		projectID string
		opts      neon.ListOptions
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			page, err := client.Operations().List(ctx, projectID, &opts)
			if err != nil {
				return fmt.Errorf("failed to list operations: %w", err)
			}

			operations := page.Items()

			if all {
				operations, err = collectPages(page, func(next neon.ListOptions) (*neon.Collection[neon.Operation], error) {
					return client.Operations().List(ctx, projectID, &next)
				})
				if err != nil {
					return fmt.Errorf("failed to list operations: %w", err)
				}
			} else {
				defer printPageHint(cmd, page)
			}

			return render(cmd, operationRows, operations)
		},
	}

	projectFlag(cmd, &projectID)
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of operations per page")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "cursor returned by a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newOperationsGetCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "get OPERATION_ID",
		Short: "Show an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			operation, err := client.Operations().Get(cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get operation: %w", err)
			}

			return render(cmd, propertyRenderer(func(op neon.Operation) [][]string {
				return [][]string{
					{"ID", op.ID},
					{"Action", deref(op.Action)},
					{"Status", deref(op.Status)},
					{"Project", deref(op.ProjectID)},
					{"Branch", deref(op.BranchID)},
					{"Endpoint", deref(op.EndpointID)},
					{"Error", deref(op.Error)},
					{"Failures", deref(op.FailuresCount)},
					{"Duration (ms)", deref(op.TotalDurationMs)},
					{"Created", formatTime(op.CreatedAt)},
					{"Updated", formatTime(op.UpdatedAt)},
				}
			}), operation.Record())
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}
