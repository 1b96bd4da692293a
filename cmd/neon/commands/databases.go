package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewDatabasesCommand creates the databases command group.
func NewDatabasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "databases",
		Aliases: []string{"database", "db"},
		Short:   "Manage databases",
		Long:    "List, inspect, create, update and delete the databases of a branch",
	}

	cmd.AddCommand(newDatabasesListCommand())
	cmd.AddCommand(newDatabasesGetCommand())
	cmd.AddCommand(newDatabasesCreateCommand())
	cmd.AddCommand(newDatabasesUpdateCommand())
	cmd.AddCommand(newDatabasesDeleteCommand())

	return cmd
}

// branchFlags registers the required --project and --branch flags.
func branchFlags(cmd *cobra.Command, projectID, branchID *string) {
	projectFlag(cmd, projectID)
	cmd.Flags().StringVarP(branchID, "branch", "b", "", "branch id")
	_ = cmd.MarkFlagRequired("branch")
}

var databaseRows = &OutputRenderer[[]neon.Database]{
	Header: []any{"ID", "Name", "Owner", "Branch", "Created"},
	Rows: func(databases []neon.Database) [][]string {
		rows := make([][]string, 0, len(databases))
		for _, db := range databases {
			rows = append(rows, []string{
				fmt.Sprint(db.ID), db.Name, deref(db.OwnerName), deref(db.BranchID), formatTime(db.CreatedAt),
			})
		}

		return rows
	},
}

func newDatabasesListCommand() *cobra.Command {
	var (
		projectID, branchID string
		opts                neon.ListOptions
		all                 bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			page, err := client.Databases().List(ctx, projectID, branchID, &opts)
			if err != nil {
				return fmt.Errorf("failed to list databases: %w", err)
			}

			databases := page.Items()

			if all {
				databases, err = collectPages(page, func(next neon.ListOptions) (*neon.Collection[neon.Database], error) {
					return client.Databases().List(ctx, projectID, branchID, &next)
				})
				if err != nil {
					return fmt.Errorf("failed to list databases: %w", err)
				}
			} else {
				defer printPageHint(cmd, page)
			}

			return render(cmd, databaseRows, databases)
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of databases per page")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "cursor returned by a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newDatabasesGetCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "get DATABASE_NAME",
		Short: "Show a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			database, err := client.Databases().Get(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get database: %w", err)
			}

			return render(cmd, databaseRows, []neon.Database{database.Record()})
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}

func newDatabasesCreateCommand() *cobra.Command {
	var projectID, branchID, owner string

	cmd := &cobra.Command{
		Use:   "create DATABASE_NAME",
		Short: "Create a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.DatabaseCreateRequest{Database: neon.DatabaseCreate{Name: args[0], OwnerName: owner}}

			database, err := client.Databases().Create(cmd.Context(), projectID, branchID, request)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}

			return render(cmd, databaseRows, []neon.Database{database.Record()})
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().StringVar(&owner, "owner", "", "role owning the database")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func newDatabasesUpdateCommand() *cobra.Command {
	var projectID, branchID, name, owner string

	cmd := &cobra.Command{
		Use:   "update DATABASE_NAME",
		Short: "Rename a database or change its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.DatabaseUpdateRequest{Database: neon.DatabaseUpdate{
				Name:      optional(name),
				OwnerName: optional(owner),
			}}

			database, err := client.Databases().Update(cmd.Context(), projectID, branchID, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update database: %w", err)
			}

			return render(cmd, databaseRows, []neon.Database{database.Record()})
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().StringVar(&name, "name", "", "new database name")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner role")
	cmd.MarkFlagsOneRequired("name", "owner")

	return cmd
}

func newDatabasesDeleteCommand() *cobra.Command {
	var projectID, branchID string

	cmd := &cobra.Command{
		Use:   "delete DATABASE_NAME",
		Short: "Delete a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			database, err := client.Databases().Delete(cmd.Context(), projectID, branchID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete database: %w", err)
			}

			return render(cmd, databaseRows, []neon.Database{database.Record()})
		},
	}

	branchFlags(cmd, &projectID, &branchID)

	return cmd
}
