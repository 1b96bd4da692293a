package client_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/neondatabase/neon-api-go/internal/client"
	"github.com/neondatabase/neon-api-go/pkg/neon"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// recordedRequest is what the fake API saw for one call.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeAPI answers every request with a canned status and body and records
// what it received.
type fakeAPI struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []recordedRequest
}

func (f *fakeAPI) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: request.Method,
		Path:   request.URL.EscapedPath(),
		Query:  request.URL.RawQuery,
		Auth:   request.Header.Get("Authorization"),
		Body:   string(body),
	})
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(f.body))
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.requests, "no request reached the server")

	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.requests)
}

// newTestClient starts a fake API answering with status and body and returns
// a client pointed at it.
func newTestClient(t *testing.T, status int, body string) (*Client, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{status: status, body: body}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := New(&neon.Config{APIKey: testAPIKey, BaseURL: server.URL + "/api/v2/"})
	require.NoError(t, err)

	return client, api
}
