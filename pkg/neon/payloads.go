package neon

import "reflect"

// Fields is a free-form bag of request fields. Nil values are dropped before
// sending. When used as a payload, the bag is wrapped in the envelope key the
// endpoint expects, e.g. {"project": {...}}.
type Fields map[string]any

func (f Fields) compact() map[string]any {
	out := make(map[string]any, len(f))

	for k, v := range f {
		if !isNil(v) {
			out[k] = v
		}
	}

	return out
}

// isNil also catches typed nils such as (*string)(nil) stored in an any.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func (f Fields) wrap(key string) map[string]any {
	return map[string]any{key: f.compact()}
}

// ProjectPayload is a project create/update body.
type ProjectPayload interface {
	ProjectBody() any
}

// BranchPayload is a branch create/update body.
type BranchPayload interface {
	BranchBody() any
}

// DatabasePayload is a database create/update body.
type DatabasePayload interface {
	DatabaseBody() any
}

// EndpointPayload is an endpoint create/update body.
type EndpointPayload interface {
	EndpointBody() any
}

// APIKeyPayload is an API key create body.
type APIKeyPayload interface {
	APIKeyBody() any
}

// PermissionPayload is a project permission grant body.
type PermissionPayload interface {
	PermissionBody() any
}

// ProjectBody wraps the fields under "project".
func (f Fields) ProjectBody() any { return f.wrap("project") }

// BranchBody wraps the fields under "branch".
func (f Fields) BranchBody() any { return f.wrap("branch") }

// DatabaseBody wraps the fields under "database".
func (f Fields) DatabaseBody() any { return f.wrap("database") }

// EndpointBody wraps the fields under "endpoint".
func (f Fields) EndpointBody() any { return f.wrap("endpoint") }

// APIKeyBody sends the fields unwrapped.
func (f Fields) APIKeyBody() any { return f.compact() }

// PermissionBody sends the fields unwrapped.
func (f Fields) PermissionBody() any { return f.compact() }

// ProjectCreateRequest is the body of POST projects.
type ProjectCreateRequest struct {
	Project ProjectCreate `json:"project"`
}

// ProjectCreate holds the settings of a new project.
type ProjectCreate struct {
	Name                    *string                `json:"name,omitempty"`
	RegionID                *string                `json:"region_id,omitempty"`
	PgVersion               *int                   `json:"pg_version,omitempty"`
	StorePasswords          *bool                  `json:"store_passwords,omitempty"`
	HistoryRetentionSeconds *int64                 `json:"history_retention_seconds,omitempty"`
	OrgID                   *string                `json:"org_id,omitempty"`
	Branch                  *ProjectBranchSettings `json:"branch,omitempty"`
	DefaultEndpointSettings map[string]any         `json:"default_endpoint_settings,omitempty"`
	Settings                map[string]any         `json:"settings,omitempty"`
}

// ProjectBranchSettings names the default branch, role and database of a new project.
type ProjectBranchSettings struct {
	Name         *string `json:"name,omitempty"`
	RoleName     *string `json:"role_name,omitempty"`
	DatabaseName *string `json:"database_name,omitempty"`
}

// ProjectBody returns the request as-is.
func (r *ProjectCreateRequest) ProjectBody() any { return r }

// ProjectUpdateRequest is the body of PATCH projects/{id}.
type ProjectUpdateRequest struct {
	Project ProjectUpdate `json:"project"`
}

// ProjectUpdate holds the mutable project settings.
type ProjectUpdate struct {
	Name                    *string        `json:"name,omitempty"`
	HistoryRetentionSeconds *int64         `json:"history_retention_seconds,omitempty"`
	DefaultEndpointSettings map[string]any `json:"default_endpoint_settings,omitempty"`
	Settings                map[string]any `json:"settings,omitempty"`
}

// ProjectBody returns the request as-is.
func (r *ProjectUpdateRequest) ProjectBody() any { return r }

// BranchCreateRequest is the body of POST projects/{id}/branches. Endpoints
// listed here are created together with the branch.
type BranchCreateRequest struct {
	Branch    *BranchCreate          `json:"branch,omitempty"`
	Endpoints []BranchEndpointCreate `json:"endpoints,omitempty"`
}

// BranchCreate holds the settings of a new branch.
type BranchCreate struct {
	Name            *string `json:"name,omitempty"`
	ParentID        *string `json:"parent_id,omitempty"`
	ParentLSN       *string `json:"parent_lsn,omitempty"`
	ParentTimestamp *string `json:"parent_timestamp,omitempty"`
	Protected       *bool   `json:"protected,omitempty"`
}

// BranchEndpointCreate describes a compute created with a branch.
type BranchEndpointCreate struct {
	Type                  EndpointType `json:"type"`
	AutoscalingLimitMinCU *float64     `json:"autoscaling_limit_min_cu,omitempty"`
	AutoscalingLimitMaxCU *float64     `json:"autoscaling_limit_max_cu,omitempty"`
	SuspendTimeoutSeconds *int64       `json:"suspend_timeout_seconds,omitempty"`
}

// BranchBody returns the request as-is.
func (r *BranchCreateRequest) BranchBody() any { return r }

// BranchUpdateRequest is the body of PATCH projects/{id}/branches/{id}.
type BranchUpdateRequest struct {
	Branch BranchUpdate `json:"branch"`
}

// BranchUpdate holds the mutable branch settings.
type BranchUpdate struct {
	Name      *string `json:"name,omitempty"`
	Protected *bool   `json:"protected,omitempty"`
}

// BranchBody returns the request as-is.
func (r *BranchUpdateRequest) BranchBody() any { return r }

// DatabaseCreateRequest is the body of POST .../databases.
type DatabaseCreateRequest struct {
	Database DatabaseCreate `json:"database"`
}

// DatabaseCreate names a new database and its owner role.
type DatabaseCreate struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
}

// DatabaseBody returns the request as-is.
func (r *DatabaseCreateRequest) DatabaseBody() any { return r }

// DatabaseUpdateRequest is the body of PATCH .../databases/{name}.
type DatabaseUpdateRequest struct {
	Database DatabaseUpdate `json:"database"`
}

// DatabaseUpdate renames a database or changes its owner.
type DatabaseUpdate struct {
	Name      *string `json:"name,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`
}

// DatabaseBody returns the request as-is.
func (r *DatabaseUpdateRequest) DatabaseBody() any { return r }

// EndpointCreateRequest is the body of POST projects/{id}/endpoints.
type EndpointCreateRequest struct {
	Endpoint EndpointCreate `json:"endpoint"`
}

// EndpointCreate holds the settings of a new compute endpoint.
type EndpointCreate struct {
	BranchID              string         `json:"branch_id"`
	Type                  EndpointType   `json:"type"`
	RegionID              *string        `json:"region_id,omitempty"`
	AutoscalingLimitMinCU *float64       `json:"autoscaling_limit_min_cu,omitempty"`
	AutoscalingLimitMaxCU *float64       `json:"autoscaling_limit_max_cu,omitempty"`
	PoolerEnabled         *bool          `json:"pooler_enabled,omitempty"`
	PoolerMode            *PoolerMode    `json:"pooler_mode,omitempty"`
	Disabled              *bool          `json:"disabled,omitempty"`
	SuspendTimeoutSeconds *int64         `json:"suspend_timeout_seconds,omitempty"`
	Settings              map[string]any `json:"settings,omitempty"`
}

// EndpointBody returns the request as-is.
func (r *EndpointCreateRequest) EndpointBody() any { return r }

// EndpointUpdateRequest is the body of PATCH projects/{id}/endpoints/{id}.
type EndpointUpdateRequest struct {
	Endpoint EndpointUpdate `json:"endpoint"`
}

// EndpointUpdate holds the mutable endpoint settings.
type EndpointUpdate struct {
	BranchID              *string        `json:"branch_id,omitempty"`
	AutoscalingLimitMinCU *float64       `json:"autoscaling_limit_min_cu,omitempty"`
	AutoscalingLimitMaxCU *float64       `json:"autoscaling_limit_max_cu,omitempty"`
	PoolerEnabled         *bool          `json:"pooler_enabled,omitempty"`
	PoolerMode            *PoolerMode    `json:"pooler_mode,omitempty"`
	Disabled              *bool          `json:"disabled,omitempty"`
	SuspendTimeoutSeconds *int64         `json:"suspend_timeout_seconds,omitempty"`
	Settings              map[string]any `json:"settings,omitempty"`
}

// EndpointBody returns the request as-is.
func (r *EndpointUpdateRequest) EndpointBody() any { return r }

// APIKeyCreateRequest is the body of POST api_keys.
type APIKeyCreateRequest struct {
	KeyName string `json:"key_name"`
}

// APIKeyBody returns the request as-is.
func (r *APIKeyCreateRequest) APIKeyBody() any { return r }

// PermissionGrantRequest is the body of POST projects/{id}/permissions.
type PermissionGrantRequest struct {
	Email string `json:"email"`
}

// PermissionBody returns the request as-is.
func (r *PermissionGrantRequest) PermissionBody() any { return r }

// RoleCreateRequest is the body of POST .../roles.
type RoleCreateRequest struct {
	Role RoleCreate `json:"role"`
}

// RoleCreate names a new role.
type RoleCreate struct {
	Name string `json:"name"`
}
