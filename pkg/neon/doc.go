// Package neon provides types, interfaces, and helpers for working with the
// Neon v2 management API.
//
// # Overview
//
// The neon package defines the wire records (Project, Branch, Database, Role,
// Endpoint, Operation, APIKey, ...) and the interfaces for resource-oriented
// clients (ProjectsClient, BranchesClient, ...). A concrete implementation is
// provided by the neonclient package, which wires configuration, transport and
// tracing. Most consumers should import neonclient to construct a client and
// then interact with the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := neonclient.NewFromEnv()
//	  if err != nil { log.Fatal(err) }
//
//	  projects, err := cli.Projects().List(ctx, &neon.ProjectListOptions{})
//	  if err != nil { log.Fatal(err) }
//
//	  p, err := projects.Lookup("my-project")
//	  if err != nil { log.Fatal(err) }
//	  _ = p
//	}
//
// # Views and pagination
//
// List operations return a Collection, which keeps the server order, supports
// positional access and lookup by the keys each family declares (id, then
// name). A Collection never fetches more pages on its own; NextPage returns
// the options for the strictly-next request:
//
//	for {
//	  page, err := cli.Projects().List(ctx, opts)
//	  if err != nil { break }
//	  for _, p := range page.All() { _ = p }
//	  next, ok := page.NextPage()
//	  if !ok { break }
//	  opts.ListOptions = next
//	}
//
// Single results are returned as an Item, unwrapped from the API's envelope
// key where there is one.
//
// # Create and update payloads
//
// Every create/update call accepts either a typed request record
// (ProjectCreateRequest, BranchCreateRequest, ...) sent as-is, or a Fields bag
// that is wrapped in the envelope key the endpoint expects.
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the status and the raw
// body. errors.Is maps common statuses to ErrUnauthorized, ErrForbidden,
// ErrResourceNotFound and ErrRateLimited. Responses that do not match the
// declared record produce *SchemaError, failed Collection lookups produce
// *NotFoundError and bad client configuration produces *ConfigurationError.
package neon
