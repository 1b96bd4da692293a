package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// NewEndpointsCommand creates the endpoints command group.
func NewEndpointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"endpoint", "ep"},
		Short:   "Manage compute endpoints",
		Long:    "List, create, update and delete compute endpoints and control their lifecycle",
	}

	cmd.AddCommand(newEndpointsListCommand())
	cmd.AddCommand(newEndpointsGetCommand())
	cmd.AddCommand(newEndpointsCreateCommand())
	cmd.AddCommand(newEndpointsUpdateCommand())
	cmd.AddCommand(newEndpointsDeleteCommand())
	cmd.AddCommand(newEndpointActionCommand("start", "Start a suspended endpoint", neon.EndpointsClient.Start))
	cmd.AddCommand(newEndpointActionCommand("suspend", "Suspend an endpoint", neon.EndpointsClient.Suspend))
	cmd.AddCommand(newEndpointActionCommand("restart", "Restart an endpoint", neon.EndpointsClient.Restart))

	return cmd
}

var endpointRows = &OutputRenderer[[]neon.Endpoint]{
	Header: []any{"ID", "Host", "Branch", "Type", "State", "Min CU", "Max CU"},
	Rows: func(endpoints []neon.Endpoint) [][]string {
		rows := make([][]string, 0, len(endpoints))
		for _, e := range endpoints {
			rows = append(rows, []string{
				e.ID, e.Host, deref(e.BranchID), deref(e.Type), deref(e.CurrentState),
				deref(e.AutoscalingLimitMinCU), deref(e.AutoscalingLimitMaxCU),
			})
		}

		return rows
	},
}

var endpointOperationsDetail = propertyRenderer(func(r neon.EndpointOperations) [][]string {
	return [][]string{
		{"ID", r.Endpoint.ID},
		{"Host", r.Endpoint.Host},
		{"Branch", deref(r.Endpoint.BranchID)},
		{"State", deref(r.Endpoint.CurrentState)},
		{"Pending State", deref(r.Endpoint.PendingState)},
		{"Operations", formatOperations(r.Operations)},
	}
})

func newEndpointsListCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			endpoints, err := client.Endpoints().List(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("failed to list endpoints: %w", err)
			}

			return render(cmd, endpointRows, endpoints.Items())
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}

func newEndpointsGetCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "get ENDPOINT_ID",
		Short: "Show an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			endpoint, err := client.Endpoints().Get(cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get endpoint: %w", err)
			}

			return render(cmd, endpointRows, []neon.Endpoint{endpoint.Record()})
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}

// endpointSizing holds the flags shared by create and update.
type endpointSizing struct {
	minCU, maxCU   float64
	suspendTimeout int64
}

func (s *endpointSizing) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.minCU, "min-cu", 0, "minimum autoscaling compute units")
	cmd.Flags().Float64Var(&s.maxCU, "max-cu", 0, "maximum autoscaling compute units")
	cmd.Flags().Int64Var(&s.suspendTimeout, "suspend-timeout", 0, "seconds of inactivity before suspending, -1 to never suspend")
}

// changed returns pointers for the flags the user set.
func (s *endpointSizing) changed(cmd *cobra.Command) (minCU, maxCU *float64, suspendTimeout *int64) {
	if cmd.Flags().Changed("min-cu") {
		minCU = &s.minCU
	}

	if cmd.Flags().Changed("max-cu") {
		maxCU = &s.maxCU
	}

	if cmd.Flags().Changed("suspend-timeout") {
		suspendTimeout = &s.suspendTimeout
	}

	return minCU, maxCU, suspendTimeout
}

func newEndpointsCreateCommand() *cobra.Command {
	var (
		projectID, branchID, endpointType string
		sizing                            endpointSizing
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			minCU, maxCU, suspendTimeout := sizing.changed(cmd)
			request := &neon.EndpointCreateRequest{Endpoint: neon.EndpointCreate{
				BranchID:              branchID,
				Type:                  neon.EndpointType(endpointType),
				AutoscalingLimitMinCU: minCU,
				AutoscalingLimitMaxCU: maxCU,
				SuspendTimeoutSeconds: suspendTimeout,
			}}

			result, err := client.Endpoints().Create(cmd.Context(), projectID, request)
			if err != nil {
				return fmt.Errorf("failed to create endpoint: %w", err)
			}

			return render(cmd, endpointOperationsDetail, result.Record())
		},
	}

	branchFlags(cmd, &projectID, &branchID)
	cmd.Flags().StringVar(&endpointType, "type", string(neon.EndpointTypeReadWrite), "read_write or read_only")
	sizing.register(cmd)

	return cmd
}

func newEndpointsUpdateCommand() *cobra.Command {
	var (
		projectID string
		sizing    endpointSizing
	)

	cmd := &cobra.Command{
		Use:   "update ENDPOINT_ID",
		Short: "Resize an endpoint or change its suspend timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			minCU, maxCU, suspendTimeout := sizing.changed(cmd)
			request := &neon.EndpointUpdateRequest{Endpoint: neon.EndpointUpdate{
				AutoscalingLimitMinCU: minCU,
				AutoscalingLimitMaxCU: maxCU,
				SuspendTimeoutSeconds: suspendTimeout,
			}}

			result, err := client.Endpoints().Update(cmd.Context(), projectID, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update endpoint: %w", err)
			}

			return render(cmd, endpointOperationsDetail, result.Record())
		},
	}

	projectFlag(cmd, &projectID)
	sizing.register(cmd)
	cmd.MarkFlagsOneRequired("min-cu", "max-cu", "suspend-timeout")

	return cmd
}

func newEndpointsDeleteCommand() *cobra.Command {
	return newEndpointActionCommand("delete", "Delete an endpoint", neon.EndpointsClient.Delete)
}

type endpointAction func(c neon.EndpointsClient, ctx context.Context, projectID, endpointID string) (*neon.Item[neon.EndpointOperations], error)

func newEndpointActionCommand(name, short string, action endpointAction) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   name + " ENDPOINT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := action(client.Endpoints(), cmd.Context(), projectID, args[0])
			if err != nil {
				return fmt.Errorf("failed to %s endpoint: %w", name, err)
			}

			return render(cmd, endpointOperationsDetail, result.Record())
		},
	}

	projectFlag(cmd, &projectID)

	return cmd
}
