package constants

import "time"

// Client identification.
const (
	// Version is the library version reported in the User-Agent header.
	Version = "0.3.0"

	// UserAgent is the default client identification header value.
	UserAgent = "neon-client/go version=(" + Version + ")"
)

// API endpoint and credentials.
const (
	// DefaultBaseURL is the Neon v2 management API root.
	DefaultBaseURL = "https://console.neon.tech/api/v2/"

	// EnvAPIKey names the environment variable holding the API key.
	EnvAPIKey = "NEON_API_KEY"

	// EnvBaseURL names the environment variable overriding the API root.
	EnvBaseURL = "NEON_API_BASE_URL"
)

// CLI configuration files.
const (
	// ConfigDirName is the directory under $HOME holding the CLI configuration.
	ConfigDirName = ".neon"

	// ConfigFileName is the CLI configuration file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the CLI configuration file format and extension.
	ConfigFileType = "yml"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as connection checks.
	ShortHTTPTimeout = 10 * time.Second
)

// HTTP header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"

	// MediaTypeJSON is sent as both Accept and Content-Type.
	MediaTypeJSON = "application/json"

	// BearerPrefix precedes the API key in the Authorization header.
	BearerPrefix = "Bearer "
)

// Query parameter names.
const (
	QueryCursor       = "cursor"
	QueryLimit        = "limit"
	QuerySearch       = "search"
	QueryOrgID        = "org_id"
	QueryFrom         = "from"
	QueryTo           = "to"
	QueryBranchID     = "branch_id"
	QueryEndpointID   = "endpoint_id"
	QueryDatabaseName = "database_name"
	QueryRoleName     = "role_name"
	QueryPooled       = "pooled"
)

// API path segments.
const (
	SegmentUsers          = "users"
	SegmentMe             = "me"
	SegmentAPIKeys        = "api_keys"
	SegmentProjects       = "projects"
	SegmentShared         = "shared"
	SegmentPermissions    = "permissions"
	SegmentConnectionURI  = "connection_uri"
	SegmentBranches       = "branches"
	SegmentSetAsDefault   = "set_as_default"
	SegmentDatabases      = "databases"
	SegmentRoles          = "roles"
	SegmentRevealPassword = "reveal_password"
	SegmentResetPassword  = "reset_password"
	SegmentEndpoints      = "endpoints"
	SegmentStart          = "start"
	SegmentSuspend        = "suspend"
	SegmentRestart        = "restart"
	SegmentOperations     = "operations"
	SegmentConsumption    = "consumption"
)

// Response envelope keys.
const (
	KeyProject            = "project"
	KeyProjects           = "projects"
	KeyProjectPermissions = "project_permissions"
	KeyBranch             = "branch"
	KeyBranches           = "branches"
	KeyDatabase           = "database"
	KeyDatabases          = "databases"
	KeyRole               = "role"
	KeyRoles              = "roles"
	KeyEndpoint           = "endpoint"
	KeyEndpoints          = "endpoints"
	KeyOperation          = "operation"
	KeyOperations         = "operations"
	KeyPagination         = "pagination"
)

// Output formats.
const (
	// FormatTable renders results as a table.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Display constants.
const (
	// TimestampFormat is used when rendering timestamps in tables.
	TimestampFormat = "2006-01-02 15:04:05"

	// DefaultPageSize is the CLI's default list limit.
	DefaultPageSize = 50

	// RedactedPassword replaces passwords in displayed connection URIs.
	RedactedPassword = "xxxxx"

	// KeyPassword is the connection parameter holding a role password.
	KeyPassword = "password"
)
