package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/internal/conninfo"
	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewBranchesCommand creates the branches command group.
func NewBranchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch"},
		Short:   "Manage branches",
		Long:    "List, inspect, create, rename and delete the branches of a project",
	}

	cmd.AddCommand(newBranchesListCommand())
	cmd.AddCommand(newBranchesGetCommand())
	cmd.AddCommand(newBranchesCreateCommand())
	cmd.AddCommand(newBranchesRenameCommand())
	cmd.AddCommand(newBranchesDeleteCommand())
	cmd.AddCommand(newBranchesSetDefaultCommand())

	return cmd
}

// projectFlag registers the required --project flag.
func projectFlag(cmd *cobra.Command, projectID *string) {
	cmd.Flags().StringVarP(projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
}

var branchRows = &OutputRenderer[[]neon.Branch]{
	Header: []any{"ID", "Name", "Parent", "State", "Default", "Protected", "Created"},
	Rows: func(branches []neon.Branch) [][]string {
		rows := make([][]string, 0, len(branches))
		for _, b := range branches {
			rows = append(rows, []string{
				b.ID, b.Name, deref(b.ParentID), deref(b.CurrentState),
				formatBool(b.Default), formatBool(b.Protected), formatTime(b.CreatedAt),
			})
		}

		return rows
	},
}

var branchDetail = propertyRenderer(func(b neon.Branch) [][]string {
	return [][]string{
		{"ID", b.ID},
		{"Name", b.Name},
		{"Project", deref(b.ProjectID)},
		{"Parent", deref(b.ParentID)},
		{"Parent LSN", deref(b.ParentLSN)},
		{"State", deref(b.CurrentState)},
		{"Default", formatBool(b.Default)},
		{"Protected", formatBool(b.Protected)},
		{"Logical Size", deref(b.LogicalSize)},
		{"Created", formatTime(b.CreatedAt)},
		{"Updated", formatTime(b.UpdatedAt)},
	}
})

var branchOperationsDetail = propertyRenderer(func(r neon.BranchOperations) [][]string {
	return [][]string{
		{"ID", r.Branch.ID},
		{"Name", r.Branch.Name},
		{"Parent", deref(r.Branch.ParentID)},
		{"State", deref(r.Branch.CurrentState)},
		{"Endpoints", fmt.Sprint(len(r.Endpoints))},
		{"Operations", formatOperations(r.Operations)},
	}
})

// maskBranchSecrets redacts role passwords and connection URIs of a mutation
// result unless show is set.
func maskBranchSecrets(result neon.BranchOperations, show bool) (neon.BranchOperations, error) {
	if show {
		return result, nil
	}

	roles := make([]neon.Role, len(result.Roles))
	for i, role := range result.Roles {
		if role.Password != nil {
			masked := constants.RedactedPassword
			role.Password = &masked
		}

		roles[i] = role
	}

	uris := make([]neon.ConnectionDetails, len(result.ConnectionURIs))
	for i, details := range result.ConnectionURIs {
		redacted, err := conninfo.Redact(details.ConnectionURI)
		if err != nil {
			return result, fmt.Errorf("failed to mask connection uri: %w", err)
		}

		params := make(map[string]any, len(details.ConnectionParameters))
		for k, v := range details.ConnectionParameters {
			if k == constants.KeyPassword {
				v = constants.RedactedPassword
			}

			params[k] = v
		}

		uris[i] = neon.ConnectionDetails{ConnectionURI: redacted, ConnectionParameters: params}
	}

	if result.Roles != nil {
		result.Roles = roles
	}

	if result.ConnectionURIs != nil {
		result.ConnectionURIs = uris
	}

	return result, nil
}

func newBranchesListCommand() *cobra.Command {
	var (
		projectID string
		opts      neon.BranchListOptions
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			page, err := client.Branches().List(ctx, projectID, &opts)
			if err != nil {
				return fmt.Errorf("failed to list branches: %w", err)
			}

			branches := page.Items()

			if all {
				branches, err = collectPages(page, func(next neon.ListOptions) (*neon.Collection[neon.Branch], error) {
					nextOpts := opts
					nextOpts.ListOptions = next

					return client.Branches().List(ctx, projectID, &nextOpts)
				})
				if err != nil {
					return fmt.Errorf("failed to list branches: %w", err)
				}
			} else {
				defer printPageHint(cmd, page)
			}

			return render(cmd, branchRows, branches)
		},
	}

	projectFlag(cmd, &projectID)
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of branches per page")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "cursor returned by a previous page")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by branch name or id")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newBranchesGetCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "get BRANCH_ID",
		Short: "Show a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			branch, err := client.Branches().Get(cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get branch: %w", err)
			}

			return render(cmd, branchDetail, branch.Record())
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}

func newBranchesCreateCommand() *cobra.Command {
	var (
		projectID, name, parentID, parentLSN string
		protected, withEndpoint, showPassword bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a branch",
		Long:  "Create a branch from the default branch, or from --parent at its head or at --parent-lsn",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.BranchCreateRequest{Branch: &neon.BranchCreate{
				Name:      optional(name),
				ParentID:  optional(parentID),
				ParentLSN: optional(parentLSN),
			}}

			if cmd.Flags().Changed("protected") {
				request.Branch.Protected = &protected
			}

			if withEndpoint {
				request.Endpoints = []neon.BranchEndpointCreate{{Type: neon.EndpointTypeReadWrite}}
			}

			result, err := client.Branches().Create(cmd.Context(), projectID, request)
			if err != nil {
				return fmt.Errorf("failed to create branch: %w", err)
			}

			masked, err := maskBranchSecrets(result.Record(), showPassword)
			if err != nil {
				return err
			}

			return render(cmd, branchOperationsDetail, masked)
		},
	}

	projectFlag(cmd, &projectID)
	cmd.Flags().StringVar(&name, "name", "", "branch name")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent branch id")
	cmd.Flags().StringVar(&parentLSN, "parent-lsn", "", "branch from this LSN of the parent")
	cmd.Flags().BoolVar(&protected, "protected", false, "protect the branch")
	cmd.Flags().BoolVar(&withEndpoint, "with-endpoint", false, "create a read-write compute for the branch")
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "print role passwords and connection URIs in clear text")

	return cmd
}

func newBranchesRenameCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "rename BRANCH_ID NEW_NAME",
		Short: "Rename a branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.BranchUpdateRequest{Branch: neon.BranchUpdate{Name: &args[1]}}

			result, err := client.Branches().Update(cmd.Context(), projectID, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to rename branch: %w", err)
			}

			masked, err := maskBranchSecrets(result.Record(), false)
			if err != nil {
				return err
			}

			return render(cmd, branchOperationsDetail, masked)
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}

func newBranchesDeleteCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "delete BRANCH_ID",
		Short: "Delete a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Branches().Delete(cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete branch: %w", err)
			}

			masked, err := maskBranchSecrets(result.Record(), false)
			if err != nil {
				return err
			}

			return render(cmd, branchOperationsDetail, masked)
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}

func newBranchesSetDefaultCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "set-default BRANCH_ID",
		Short: "Make a branch the project's default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Branches().SetAsDefault(cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to set default branch: %w", err)
			}

			masked, err := maskBranchSecrets(result.Record(), false)
			if err != nil {
				return err
			}

			return render(cmd, branchOperationsDetail, masked)
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}
