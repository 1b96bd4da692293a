package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/internal/conninfo"
	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
		Long:    "List, inspect, create, rename and delete Neon projects",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())
	cmd.AddCommand(newProjectsCreateCommand())
	cmd.AddCommand(newProjectsRenameCommand())
	cmd.AddCommand(newProjectsDeleteCommand())
	cmd.AddCommand(newProjectsPermissionsCommand())
	cmd.AddCommand(newProjectsConnectionURICommand())
	cmd.AddCommand(newProjectsConsumptionCommand())

	return cmd
}

var projectRows = &OutputRenderer[[]neon.Project]{
	Header: []any{"ID", "Name", "Region", "PG", "Created"},
	Rows: func(projects []neon.Project) [][]string {
		rows := make([][]string, 0, len(projects))
		for _, p := range projects {
			rows = append(rows, []string{p.ID, p.Name, deref(p.RegionID), deref(p.PgVersion), formatTime(p.CreatedAt)})
		}

		return rows
	},
}

var projectDetail = propertyRenderer(func(p neon.Project) [][]string {
	return [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Region", deref(p.RegionID)},
		{"Postgres Version", deref(p.PgVersion)},
		{"Proxy Host", deref(p.ProxyHost)},
		{"Owner", deref(p.OwnerID)},
		{"Organization", deref(p.OrgID)},
		{"Store Passwords", formatBool(p.StorePasswords)},
		{"History Retention (s)", deref(p.HistoryRetentionSeconds)},
		{"Created", formatTime(p.CreatedAt)},
		{"Updated", formatTime(p.UpdatedAt)},
	}
})

func newProjectsListCommand() *cobra.Command {
	var (
		opts neon.ProjectListOptions
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "List owned projects, or with --shared the projects shared with you",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			page, err := client.Projects().List(ctx, &opts)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			projects := page.Items()

			if all {
				projects, err = collectPages(page, func(next neon.ListOptions) (*neon.Collection[neon.Project], error) {
					nextOpts := opts
					nextOpts.ListOptions = next

					return client.Projects().List(ctx, &nextOpts)
				})
				if err != nil {
					return fmt.Errorf("failed to list projects: %w", err)
				}
			} else {
				defer printPageHint(cmd, page)
			}

			return render(cmd, projectRows, projects)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of projects per page")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "cursor returned by a previous page")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by project name or id")
	cmd.Flags().StringVar(&opts.OrgID, "org-id", "", "list the projects of an organization")
	cmd.Flags().BoolVar(&opts.Shared, "shared", false, "list projects shared with you")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			project, err := client.Projects().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			return render(cmd, projectDetail, project.Record())
		},
	}
}

func newProjectsCreateCommand() *cobra.Command {
	var (
		name, region, orgID, branch, role, database string
		pgVersion                                   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.ProjectCreateRequest{Project: neon.ProjectCreate{
				Name:     optional(name),
				RegionID: optional(region),
				OrgID:    optional(orgID),
			}}

			if pgVersion > 0 {
				request.Project.PgVersion = &pgVersion
			}

			if branch != "" || role != "" || database != "" {
				request.Project.Branch = &neon.ProjectBranchSettings{
					Name:         optional(branch),
					RoleName:     optional(role),
					DatabaseName: optional(database),
				}
			}

			project, err := client.Projects().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			return render(cmd, projectDetail, project.Record())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&region, "region", "", "region id, e.g. aws-us-east-2")
	cmd.Flags().StringVar(&orgID, "org-id", "", "organization owning the project")
	cmd.Flags().IntVar(&pgVersion, "pg-version", 0, "Postgres major version")
	cmd.Flags().StringVar(&branch, "branch", "", "name of the default branch")
	cmd.Flags().StringVar(&role, "role", "", "name of the default role")
	cmd.Flags().StringVar(&database, "database", "", "name of the default database")

	return cmd
}

func newProjectsRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT_ID NEW_NAME",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &neon.ProjectUpdateRequest{Project: neon.ProjectUpdate{Name: &args[1]}}

			project, err := client.Projects().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to rename project: %w", err)
			}

			return render(cmd, projectDetail, project.Record())
		},
	}
}

func newProjectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			project, err := client.Projects().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}

			return render(cmd, projectDetail, project.Record())
		},
	}
}

var permissionRows = &OutputRenderer[[]neon.ProjectPermission]{
	Header: []any{"ID", "Granted To", "Granted", "Revoked"},
	Rows: func(permissions []neon.ProjectPermission) [][]string {
		rows := make([][]string, 0, len(permissions))
		for _, p := range permissions {
			rows = append(rows, []string{p.ID, p.GrantedToEmail, formatTime(p.GrantedAt), formatTime(p.RevokedAt)})
		}

		return rows
	},
}

func newProjectsPermissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Manage project sharing",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List the users a project is shared with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			permissions, err := client.Projects().Permissions(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list permissions: %w", err)
			}

			return render(cmd, permissionRows, permissions.Items())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "grant PROJECT_ID EMAIL",
		Short: "Share a project with a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			permission, err := client.Projects().GrantPermission(cmd.Context(), args[0], &neon.PermissionGrantRequest{Email: args[1]})
			if err != nil {
				return fmt.Errorf("failed to grant permission: %w", err)
			}

			return render(cmd, permissionRows, []neon.ProjectPermission{permission.Record()})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke PROJECT_ID PERMISSION_ID",
		Short: "Stop sharing a project with a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			permission, err := client.Projects().RevokePermission(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to revoke permission: %w", err)
			}

			return render(cmd, permissionRows, []neon.ProjectPermission{permission.Record()})
		},
	})

	return cmd
}

// ConnectionReport is the output of projects connection-uri.
type ConnectionReport struct {
	URI  string         `json:"uri"            yaml:"uri"`
	Info *conninfo.Info `json:"info"           yaml:"info"`
	Ping string         `json:"ping,omitempty" yaml:"ping,omitempty"`
}

func newProjectsConnectionURICommand() *cobra.Command {
	var (
		opts         neon.ConnectionURIOptions
		pooled       bool
		ping         bool
		showPassword bool
	)

	cmd := &cobra.Command{
		Use:   "connection-uri PROJECT_ID",
		Short: "Show a Postgres connection URI",
		Long: `Build a connection URI for a branch, endpoint, database and role of a project.

The password is masked unless --show-password is given. With --ping the URI is
used to open a connection and ping the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("pooled") {
				opts.Pooled = &pooled
			}

			result, err := client.Projects().ConnectionURI(cmd.Context(), args[0], &opts)
			if err != nil {
				return fmt.Errorf("failed to get connection uri: %w", err)
			}

			report, err := buildConnectionReport(cmd.Context(), result.Record().URI, ping, showPassword)
			if err != nil {
				return err
			}

			return render(cmd, propertyRenderer(func(r *ConnectionReport) [][]string {
				rows := [][]string{
					{"URI", r.URI},
					{"Host", r.Info.Host},
					{"Port", fmt.Sprint(r.Info.Port)},
					{"Database", r.Info.Database},
					{"User", r.Info.User},
					{"TLS", fmt.Sprint(r.Info.TLS)},
					{"Pooled", fmt.Sprint(r.Info.Pooled)},
				}
				if r.Ping != "" {
					rows = append(rows, []string{"Ping", r.Ping})
				}

				return rows
			}), report)
		},
	}

	cmd.Flags().StringVar(&opts.BranchID, "branch", "", "branch id (default branch when empty)")
	cmd.Flags().StringVar(&opts.EndpointID, "endpoint", "", "endpoint id (read-write endpoint of the branch when empty)")
	cmd.Flags().StringVar(&opts.DatabaseName, "database", "", "database name")
	cmd.Flags().StringVar(&opts.RoleName, "role", "", "role name")
	cmd.Flags().BoolVar(&pooled, "pooled", false, "use the connection pooler host")
	cmd.Flags().BoolVar(&ping, "ping", false, "connect and ping the database")
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "print the password in clear text")

	return cmd
}

func buildConnectionReport(ctx context.Context, uri string, ping, showPassword bool) (*ConnectionReport, error) {
	info, err := conninfo.Parse(uri)
	if err != nil {
		return nil, err
	}

	report := &ConnectionReport{URI: uri, Info: info}

	if !showPassword {
		report.URI, err = conninfo.Redact(uri)
		if err != nil {
			return nil, err
		}
	}

	if ping {
		pingCtx, cancel := context.WithTimeout(ctx, constants.ShortHTTPTimeout)
		defer cancel()

		start := time.Now()
		if err := conninfo.Ping(pingCtx, uri); err != nil {
			return nil, err
		}

		report.Ping = fmt.Sprintf("ok (%s)", time.Since(start).Round(time.Millisecond))
	}

	return report, nil
}

func newProjectsConsumptionCommand() *cobra.Command {
	var (
		opts     neon.ConsumptionListOptions
		from, to string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "consumption",
		Short: "Show per-project consumption",
		Long:  "List consumption metrics per project. --from and --to take RFC 3339 timestamps.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error

			if opts.From, err = parseTimeFlag("from", from); err != nil {
				return err
			}

			if opts.To, err = parseTimeFlag("to", to); err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			page, err := client.Consumption().ListProjects(ctx, &opts)
			if err != nil {
				return fmt.Errorf("failed to list consumption: %w", err)
			}

			projects := page.Items()

			if all {
				projects, err = collectPages(page, func(next neon.ListOptions) (*neon.Collection[neon.ProjectConsumption], error) {
					nextOpts := opts
					nextOpts.ListOptions = next

					return client.Consumption().ListProjects(ctx, &nextOpts)
				})
				if err != nil {
					return fmt.Errorf("failed to list consumption: %w", err)
				}
			} else {
				defer printPageHint(cmd, page)
			}

			return render(cmd, consumptionRows, projects)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of projects per page")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "cursor returned by a previous page")
	cmd.Flags().StringVar(&from, "from", "", "start of the reporting window")
	cmd.Flags().StringVar(&to, "to", "", "end of the reporting window")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

var consumptionRows = &OutputRenderer[[]neon.ProjectConsumption]{
	Header: []any{"Project", "Period", "Plan", "Active (s)", "Compute (s)", "Written (B)"},
	Rows: func(projects []neon.ProjectConsumption) [][]string {
		var rows [][]string

		for _, project := range projects {
			for _, period := range project.Periods {
				var active, compute, written int64

				for _, point := range period.Consumption {
					active += valueOf(point.ActiveTimeSeconds)
					compute += valueOf(point.ComputeTimeSeconds)
					written += valueOf(point.WrittenDataBytes)
				}

				rows = append(rows, []string{
					project.ProjectID, deref(period.PeriodID), deref(period.PeriodPlan),
					fmt.Sprint(active), fmt.Sprint(compute), fmt.Sprint(written),
				})
			}
		}

		return rows
	},
}

func parseTimeFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}

	return parsed, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func valueOf[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}

	return *value
}
