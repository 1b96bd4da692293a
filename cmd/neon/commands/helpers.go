package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
	"github.com/neondatabase/neon-api-go/pkg/neonclient"
)

// Viper keys shared by the root command and the subcommands.
const (
	KeyAPIKey  = "api_key"
	KeyBaseURL = "base_url"
	KeyOutput  = "output"
	KeyVerbose = "verbose"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	defaultJSONIndent = 2
)

// CreateClient builds a Neon client from the API key, base URL and verbosity
// resolved by viper (flags, NEON_* environment, config file).
func CreateClient() (neon.Client, error) {
	apiKey := strings.TrimSpace(viper.GetString(KeyAPIKey))
	if apiKey == "" {
		return nil, constants.ErrNoAPIKey
	}

	config := &neon.Config{
		APIKey:  apiKey,
		BaseURL: strings.TrimSpace(viper.GetString(KeyBaseURL)),
	}

	if viper.GetBool(KeyVerbose) {
		config.Debug = true
		config.Logger = NewZerologLogger(NewConsoleLogger(os.Stderr, true))
	}

	client, err := neonclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// OutputRenderer renders one value as JSON, YAML or a table.
type OutputRenderer[T any] struct {
	Header []any
	Rows   func(data T) [][]string
}

// Render writes data to w in the given format. An empty format means table.
func (o *OutputRenderer[T]) Render(w io.Writer, data T, format string) error {
	switch format {
	case constants.FormatJSON:
		return StandardJSONRenderer(w, data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(w, data)
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(w)
		table.Header(o.Header...)

		for _, row := range o.Rows(data) {
			_ = table.Append(row)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnsupportedOutput, format)
	}
}

// propertyRenderer renders a single record as a Property/Value table.
func propertyRenderer[T any](rows func(data T) [][]string) *OutputRenderer[T] {
	return &OutputRenderer[T]{Header: []any{"Property", "Value"}, Rows: rows}
}

// render writes data to the command's output in the configured format.
func render[T any](cmd *cobra.Command, renderer *OutputRenderer[T], data T) error {
	return renderer.Render(cmd.OutOrStdout(), data, viper.GetString(KeyOutput))
}

// StandardJSONRenderer writes indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// collectPages follows the cursors of first until the listing is exhausted.
// A cursor seen twice aborts the walk.
func collectPages[T any](first *neon.Collection[T], fetch func(opts neon.ListOptions) (*neon.Collection[T], error)) ([]T, error) {
	items := first.Items()
	seen := make(map[string]struct{})
	page := first

	for {
		next, ok := page.NextPage()
		if !ok {
			return items, nil
		}

		if _, repeated := seen[next.Cursor]; repeated {
			return nil, fmt.Errorf("%w: %s", constants.ErrCursorRepeated, next.Cursor)
		}

		seen[next.Cursor] = struct{}{}

		var err error

		page, err = fetch(next)
		if err != nil {
			return nil, err
		}

		if page.Len() == 0 {
			return items, nil
		}

		items = append(items, page.Items()...)
	}
}

// printPageHint tells the user how to fetch the next page of a truncated list.
func printPageHint[T any](cmd *cobra.Command, page *neon.Collection[T]) {
	if viper.GetString(KeyOutput) != constants.FormatTable && viper.GetString(KeyOutput) != "" {
		return
	}

	if next, ok := page.NextPage(); ok {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "More results available: --cursor %s (or --all)\n", next.Cursor)
	}
}

func deref[T any](value *T) string {
	if value == nil {
		return NotAvailable
	}

	return fmt.Sprint(*value)
}

func formatTime(value *time.Time) string {
	if value == nil {
		return NotAvailable
	}

	return value.Local().Format(constants.TimestampFormat)
}

func formatBool(value *bool) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.FormatBool(*value)
}

func formatOperations(operations []neon.Operation) string {
	if len(operations) == 0 {
		return NotAvailable
	}

	ids := make([]string, 0, len(operations))
	for _, op := range operations {
		ids = append(ids, fmt.Sprintf("%s (%s)", op.ID, deref(op.Action)))
	}

	return strings.Join(ids, ", ")
}

var operationRows = &OutputRenderer[[]neon.Operation]{
	Header: []any{"ID", "Action", "Status", "Branch", "Endpoint", "Created"},
	Rows: func(operations []neon.Operation) [][]string {
		rows := make([][]string, 0, len(operations))
		for _, op := range operations {
			rows = append(rows, []string{
				op.ID, deref(op.Action), deref(op.Status),
				deref(op.BranchID), deref(op.EndpointID), formatTime(op.CreatedAt),
			})
		}

		return rows
	},
}
