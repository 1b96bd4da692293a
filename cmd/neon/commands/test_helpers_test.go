package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// Command tests share the global viper instance and must not run in parallel.

type route struct {
	status int
	body   string
}

// fakeNeon answers "METHOD /path" with canned responses and records requests.
type fakeNeon struct {
	mu       sync.Mutex
	routes   map[string]route
	requests []string
	queries  []string
}

func (f *fakeNeon) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	key := request.Method + " " + request.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, key)
	f.queries = append(f.queries, request.URL.RawQuery)
	r, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		r = route{status: http.StatusNotFound, body: `{"code":"","message":"not found"}`}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(r.status)
	_, _ = writer.Write([]byte(r.body))
}

// setupCLI points viper at a fake API and returns it.
func setupCLI(t *testing.T, output string, routes map[string]route) *fakeNeon {
	t.Helper()

	fake := &fakeNeon{routes: routes}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(KeyAPIKey, "test-key")
	viper.Set(KeyBaseURL, server.URL+"/api/v2/")
	viper.Set(KeyOutput, output)

	return fake
}

func ok(body string) route {
	return route{status: http.StatusOK, body: body}
}

// runCommand executes cmd with args and returns stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "neon", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(cmd)

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.Execute()

	return stdout.String(), err
}

func requireRequest(t *testing.T, fake *fakeNeon, want string) {
	t.Helper()

	fake.mu.Lock()
	defer fake.mu.Unlock()

	require.Contains(t, fake.requests, want)
}
