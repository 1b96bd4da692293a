// Package neonclient provides the primary entry point for constructing a
// Neon v2 API client that implements the neon.Client interface.
//
// It layers configuration defaults, validation and the HTTP transport on top
// of the resource interfaces and types defined in the neon package. Most
// applications should import neonclient to build a client, then use the
// returned neon.Client to reach the resource clients, for example Projects(),
// Branches(), Endpoints(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/neondatabase/neon-api-go/pkg/neon"
//	  "github.com/neondatabase/neon-api-go/pkg/neonclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: an API key, default API root.
//	  cli, err := neonclient.NewWithAPIKey("napi_...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or read NEON_API_KEY (and optionally NEON_API_BASE_URL).
//	  cli, err = neonclient.NewFromEnv()
//
//	  // Or configure everything explicitly.
//	  cli, err = neonclient.New(&neon.Config{
//	    APIKey:      "napi_...",
//	    BaseURL:     "https://console.neon.tech/api/v2/",
//	    HTTPTimeout: 10 * time.Second,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  projects, err := cli.Projects().List(ctx, &neon.ProjectListOptions{
//	    ListOptions: neon.ListOptions{Limit: 10},
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = projects
//	}
//
// # Validation
//
// New validates the resolved configuration before building the client. A
// missing API key, a base URL that is not an http(s) URL, or a negative
// timeout is reported as a *neon.ConfigurationError naming the field.
package neonclient
