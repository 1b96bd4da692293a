package neon

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// AccountClients provides access to account-level resource clients.
type AccountClients interface {
	Users() UsersClient
	APIKeys() APIKeysClient
	Consumption() ConsumptionClient
}

// ProjectClients provides access to project-scoped resource clients.
type ProjectClients interface {
	Projects() ProjectsClient
	Branches() BranchesClient
	Databases() DatabasesClient
	Roles() RolesClient
	Endpoints() EndpointsClient
	Operations() OperationsClient
}

// Client is the top-level Neon API client. It holds no mutable state and is
// safe for concurrent use.
type Client interface {
	AccountClients
	ProjectClients
}

// UsersClient defines operations on the authenticated user.
type UsersClient interface {
	Me(ctx context.Context) (*Item[CurrentUserInfo], error)
}

// APIKeysClient defines operations for API keys.
type APIKeysClient interface {
	List(ctx context.Context) (*Collection[APIKey], error)
	Create(ctx context.Context, payload APIKeyPayload) (*Item[APIKeyCreated], error)
	Revoke(ctx context.Context, keyID string) (*Item[APIKeyRevoked], error)
}

// ProjectsClient defines operations for projects and their permissions.
type ProjectsClient interface {
	List(ctx context.Context, opts *ProjectListOptions) (*Collection[Project], error)
	Get(ctx context.Context, projectID string) (*Item[Project], error)
	Create(ctx context.Context, payload ProjectPayload) (*Item[Project], error)
	Update(ctx context.Context, projectID string, payload ProjectPayload) (*Item[Project], error)
	Delete(ctx context.Context, projectID string) (*Item[Project], error)
	Permissions(ctx context.Context, projectID string) (*Collection[ProjectPermission], error)
	GrantPermission(ctx context.Context, projectID string, payload PermissionPayload) (*Item[ProjectPermission], error)
	RevokePermission(ctx context.Context, projectID, permissionID string) (*Item[ProjectPermission], error)
	ConnectionURI(ctx context.Context, projectID string, opts *ConnectionURIOptions) (*Item[ConnectionURI], error)
}

// BranchesClient defines operations for branches.
type BranchesClient interface {
	List(ctx context.Context, projectID string, opts *BranchListOptions) (*Collection[Branch], error)
	Get(ctx context.Context, projectID, branchID string) (*Item[Branch], error)
	Create(ctx context.Context, projectID string, payload BranchPayload) (*Item[BranchOperations], error)
	Update(ctx context.Context, projectID, branchID string, payload BranchPayload) (*Item[BranchOperations], error)
	Delete(ctx context.Context, projectID, branchID string) (*Item[BranchOperations], error)
	SetAsDefault(ctx context.Context, projectID, branchID string) (*Item[BranchOperations], error)
}

// DatabasesClient defines operations for databases. Databases are addressed by name.
type DatabasesClient interface {
	List(ctx context.Context, projectID, branchID string, opts *ListOptions) (*Collection[Database], error)
	Get(ctx context.Context, projectID, branchID, databaseName string) (*Item[Database], error)
	Create(ctx context.Context, projectID, branchID string, payload DatabasePayload) (*Item[Database], error)
	Update(ctx context.Context, projectID, branchID, databaseName string, payload DatabasePayload) (*Item[Database], error)
	Delete(ctx context.Context, projectID, branchID, databaseName string) (*Item[Database], error)
}

// RolesClient defines operations for Postgres roles.
type RolesClient interface {
	List(ctx context.Context, projectID, branchID string) (*Collection[Role], error)
	Get(ctx context.Context, projectID, branchID, roleName string) (*Item[Role], error)
	Create(ctx context.Context, projectID, branchID, roleName string) (*Item[RoleOperations], error)
	Delete(ctx context.Context, projectID, branchID, roleName string) (*Item[RoleOperations], error)
	RevealPassword(ctx context.Context, projectID, branchID, roleName string) (*Item[RolePassword], error)
	ResetPassword(ctx context.Context, projectID, branchID, roleName string) (*Item[RoleOperations], error)
}

// EndpointsClient defines operations for compute endpoints.
type EndpointsClient interface {
	List(ctx context.Context, projectID string) (*Collection[Endpoint], error)
	Get(ctx context.Context, projectID, endpointID string) (*Item[Endpoint], error)
	Create(ctx context.Context, projectID string, payload EndpointPayload) (*Item[EndpointOperations], error)
	Update(ctx context.Context, projectID, endpointID string, payload EndpointPayload) (*Item[EndpointOperations], error)
	Delete(ctx context.Context, projectID, endpointID string) (*Item[EndpointOperations], error)
	Start(ctx context.Context, projectID, endpointID string) (*Item[EndpointOperations], error)
	Suspend(ctx context.Context, projectID, endpointID string) (*Item[EndpointOperations], error)
	Restart(ctx context.Context, projectID, endpointID string) (*Item[EndpointOperations], error)
}

// OperationsClient defines read access to project operations.
type OperationsClient interface {
	List(ctx context.Context, projectID string, opts *ListOptions) (*Collection[Operation], error)
	Get(ctx context.Context, projectID, operationID string) (*Item[Operation], error)
}

// ConsumptionClient defines read access to consumption metrics.
type ConsumptionClient interface {
	ListProjects(ctx context.Context, opts *ConsumptionListOptions) (*Collection[ProjectConsumption], error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a neon.Client.
//
// Only APIKey is required. neonclient.New fills BaseURL, UserAgent and
// HTTPTimeout with defaults when they are empty, then validates the result.
// Per-request deadlines should be controlled via the context passed to
// client methods; HTTPTimeout is an upper bound applied to every call.
type Config struct {
	// APIKey: bearer credential sent with every request.
	APIKey string `validate:"required"`
	// BaseURL: API root, "https://console.neon.tech/api/v2/" by default.
	BaseURL string `validate:"required,http_url"`
	// UserAgent: overrides the default "neon-client/go version=(...)" header.
	UserAgent string
	// HTTPTimeout: overall timeout for a single request.
	HTTPTimeout time.Duration `validate:"gte=0"`
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger `validate:"-"`
	// HTTPClient: optional base client whose transport is reused.
	HTTPClient *http.Client `validate:"-"`
	// TracerProvider: span source; the global provider is used when nil.
	TracerProvider trace.TracerProvider `validate:"-"`
}
