package client

import (
	"github.com/neondatabase/neon-api-go/internal/http"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

// Client implements the neon.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     neon.Logger

	// Resource clients
	users       neon.UsersClient
	apiKeys     neon.APIKeysClient
	projects    neon.ProjectsClient
	branches    neon.BranchesClient
	databases   neon.DatabasesClient
	roles       neon.RolesClient
	endpoints   neon.EndpointsClient
	operations  neon.OperationsClient
	consumption neon.ConsumptionClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *neon.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	// The base client goes first so a configured timeout applies to it.
	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.TracerProvider != nil {
		httpOpts = append(httpOpts, http.WithTracerProvider(config.TracerProvider))
	}

	return httpOpts
}

// New creates a new Neon API client. The config is expected to be validated
// by the caller (see neonclient.New); only the API key is checked here.
func New(config *neon.Config) (*Client, error) {
	if config == nil {
		return nil, neon.ErrConfigRequired
	}

	if config.APIKey == "" {
		return nil, &neon.ConfigurationError{Field: "APIKey", Reason: "is required"}
	}

	httpClient := http.NewClient(config.BaseURL, config.APIKey, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		logger:     config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Users implements neon.Client.Users.
func (c *Client) Users() neon.UsersClient {
	return c.users
}

// APIKeys implements neon.Client.APIKeys.
func (c *Client) APIKeys() neon.APIKeysClient {
	return c.apiKeys
}

// Projects implements neon.Client.Projects.
func (c *Client) Projects() neon.ProjectsClient {
	return c.projects
}

// Branches implements neon.Client.Branches.
func (c *Client) Branches() neon.BranchesClient {
	return c.branches
}

// Databases implements neon.Client.Databases.
func (c *Client) Databases() neon.DatabasesClient {
	return c.databases
}

// Roles implements neon.Client.Roles.
func (c *Client) Roles() neon.RolesClient {
	return c.roles
}

// Endpoints implements neon.Client.Endpoints.
func (c *Client) Endpoints() neon.EndpointsClient {
	return c.endpoints
}

// Operations implements neon.Client.Operations.
func (c *Client) Operations() neon.OperationsClient {
	return c.operations
}

// Consumption implements neon.Client.Consumption.
func (c *Client) Consumption() neon.ConsumptionClient {
	return c.consumption
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.users = NewUsersClient(c.httpClient)
	c.apiKeys = NewAPIKeysClient(c.httpClient)
	c.projects = NewProjectsClient(c.httpClient)
	c.branches = NewBranchesClient(c.httpClient)
	c.databases = NewDatabasesClient(c.httpClient)
	c.roles = NewRolesClient(c.httpClient)
	c.endpoints = NewEndpointsClient(c.httpClient)
	c.operations = NewOperationsClient(c.httpClient)
	c.consumption = NewConsumptionClient(c.httpClient)
}

// loggerAdapter adapts neon.Logger to http.Logger.
type loggerAdapter struct {
	logger neon.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
