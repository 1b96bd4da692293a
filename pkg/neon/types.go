package neon

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"time"
)

// Pagination carries the opaque cursor of a truncated list. An empty cursor
// means there are no further pages.
type Pagination struct {
	Cursor string `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// BranchState is the lifecycle state of a branch.
type BranchState string

// Known branch states. Unknown values are accepted as-is.
const (
	BranchStateInit     BranchState = "init"
	BranchStateReady    BranchState = "ready"
	BranchStateArchived BranchState = "archived"
)

// EndpointState is the lifecycle state of a compute endpoint.
type EndpointState string

// Known endpoint states. Unknown values are accepted as-is.
const (
	EndpointStateInit   EndpointState = "init"
	EndpointStateActive EndpointState = "active"
	EndpointStateIdle   EndpointState = "idle"
)

// EndpointType distinguishes read-write from read-only computes.
type EndpointType string

// Known endpoint types.
const (
	EndpointTypeReadWrite EndpointType = "read_write"
	EndpointTypeReadOnly  EndpointType = "read_only"
)

// PoolerMode is the connection pooler mode of an endpoint.
type PoolerMode string

// Known pooler modes.
const (
	PoolerModeTransaction PoolerMode = "transaction"
)

// OperationStatus is the progress of an operation.
type OperationStatus string

// Known operation statuses. Unknown values are accepted as-is.
const (
	OperationStatusScheduling OperationStatus = "scheduling"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusFinished   OperationStatus = "finished"
	OperationStatusFailed     OperationStatus = "failed"
	OperationStatusError      OperationStatus = "error"
	OperationStatusCancelling OperationStatus = "cancelling"
	OperationStatusCancelled  OperationStatus = "cancelled"
	OperationStatusSkipped    OperationStatus = "skipped"
)

// OperationAction is the kind of work an operation performs.
type OperationAction string

// Known operation actions. Unknown values are accepted as-is.
const (
	OperationActionCreateCompute     OperationAction = "create_compute"
	OperationActionCreateTimeline    OperationAction = "create_timeline"
	OperationActionStartCompute      OperationAction = "start_compute"
	OperationActionSuspendCompute    OperationAction = "suspend_compute"
	OperationActionApplyConfig       OperationAction = "apply_config"
	OperationActionCheckAvailability OperationAction = "check_availability"
	OperationActionDeleteTimeline    OperationAction = "delete_timeline"
	OperationActionCreateBranch      OperationAction = "create_branch"
	OperationActionApplyStorage      OperationAction = "apply_storage_config"
)

// APIKeyID identifies an API key. The API sends integers; string ids are
// accepted too. Purely numeric ids are written back as JSON numbers.
type APIKeyID string

// UnmarshalJSON accepts a JSON string or integer. Anything else fails with a
// *json.UnmarshalTypeError so the decoder can name the offending field.
func (id *APIKeyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = APIKeyID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeFor[APIKeyID]()}
	}

	if _, err := n.Int64(); err != nil {
		return &json.UnmarshalTypeError{Value: "number " + n.String(), Type: reflect.TypeFor[APIKeyID]()}
	}

	*id = APIKeyID(n.String())

	return nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}

	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return string(data)
	}
}

// MarshalJSON writes numeric ids as numbers and anything else as a string.
func (id APIKeyID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

// String returns the id in the form used in request paths.
func (id APIKeyID) String() string {
	return string(id)
}

// CurrentUserInfo is the authenticated account returned by users/me.
type CurrentUserInfo struct {
	ID                  string         `json:"id"                              yaml:"id"                              validate:"required"`
	Email               *string        `json:"email,omitempty"                 yaml:"email,omitempty"`
	Login               *string        `json:"login,omitempty"                 yaml:"login,omitempty"`
	Name                *string        `json:"name,omitempty"                  yaml:"name,omitempty"`
	LastName            *string        `json:"last_name,omitempty"             yaml:"last_name,omitempty"`
	Image               *string        `json:"image,omitempty"                 yaml:"image,omitempty"`
	Plan                *string        `json:"plan,omitempty"                  yaml:"plan,omitempty"`
	ProjectsLimit       *int64         `json:"projects_limit,omitempty"        yaml:"projects_limit,omitempty"`
	BranchesLimit       *int64         `json:"branches_limit,omitempty"        yaml:"branches_limit,omitempty"`
	MaxAutoscalingLimit *float64       `json:"max_autoscaling_limit,omitempty" yaml:"max_autoscaling_limit,omitempty"`
	ComputeSecondsLimit *int64         `json:"compute_seconds_limit,omitempty" yaml:"compute_seconds_limit,omitempty"`
	ActiveSecondsLimit  *int64         `json:"active_seconds_limit,omitempty"  yaml:"active_seconds_limit,omitempty"`
	AuthAccounts        []AuthAccount  `json:"auth_accounts,omitempty"         yaml:"auth_accounts,omitempty"`
	BillingAccount      map[string]any `json:"billing_account,omitempty"       yaml:"billing_account,omitempty"`
}

// AuthAccount is an identity provider account linked to a user.
type AuthAccount struct {
	Email    *string `json:"email,omitempty"    yaml:"email,omitempty"`
	Image    *string `json:"image,omitempty"    yaml:"image,omitempty"`
	Login    *string `json:"login,omitempty"    yaml:"login,omitempty"`
	Name     *string `json:"name,omitempty"     yaml:"name,omitempty"`
	Provider *string `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// APIKey is one entry of the api_keys listing. The secret is never listed.
type APIKey struct {
	ID               APIKeyID    `json:"id"                            yaml:"id"                            validate:"required"`
	Name             string      `json:"name"                          yaml:"name"                          validate:"required"`
	CreatedAt        *time.Time  `json:"created_at,omitempty"          yaml:"created_at,omitempty"`
	LastUsedAt       *time.Time  `json:"last_used_at,omitempty"        yaml:"last_used_at,omitempty"`
	LastUsedFromAddr *string     `json:"last_used_from_addr,omitempty" yaml:"last_used_from_addr,omitempty"`
	CreatedBy        *APIKeyUser `json:"created_by,omitempty"          yaml:"created_by,omitempty"`
}

// APIKeyUser describes who created an API key.
type APIKeyUser struct {
	ID    *string `json:"id,omitempty"    yaml:"id,omitempty"`
	Name  *string `json:"name,omitempty"  yaml:"name,omitempty"`
	Image *string `json:"image,omitempty" yaml:"image,omitempty"`
}

// APIKeyCreated is returned once, on creation, and is the only record that
// carries the secret key.
type APIKeyCreated struct {
	ID        APIKeyID   `json:"id"                   yaml:"id"                   validate:"required"`
	Key       string     `json:"key"                  yaml:"key"                  validate:"required"`
	Name      string     `json:"name,omitempty"       yaml:"name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	CreatedBy *string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// APIKeyRevoked is the last representation of a revoked key.
type APIKeyRevoked struct {
	ID               APIKeyID   `json:"id"                            yaml:"id"                            validate:"required"`
	Name             string     `json:"name,omitempty"                yaml:"name,omitempty"`
	Revoked          *bool      `json:"revoked,omitempty"             yaml:"revoked,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"          yaml:"created_at,omitempty"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"        yaml:"last_used_at,omitempty"`
	LastUsedFromAddr *string    `json:"last_used_from_addr,omitempty" yaml:"last_used_from_addr,omitempty"`
}

// Project is a Neon project.
type Project struct {
	ID                      string         `json:"id"                                  yaml:"id"                                  validate:"required"`
	Name                    string         `json:"name"                                yaml:"name"                                validate:"required"`
	PlatformID              *string        `json:"platform_id,omitempty"               yaml:"platform_id,omitempty"`
	RegionID                *string        `json:"region_id,omitempty"                 yaml:"region_id,omitempty"`
	PgVersion               *int           `json:"pg_version,omitempty"                yaml:"pg_version,omitempty"`
	Provisioner             *string        `json:"provisioner,omitempty"               yaml:"provisioner,omitempty"`
	ProxyHost               *string        `json:"proxy_host,omitempty"                yaml:"proxy_host,omitempty"`
	StorePasswords          *bool          `json:"store_passwords,omitempty"           yaml:"store_passwords,omitempty"`
	CreationSource          *string        `json:"creation_source,omitempty"           yaml:"creation_source,omitempty"`
	HistoryRetentionSeconds *int64         `json:"history_retention_seconds,omitempty" yaml:"history_retention_seconds,omitempty"`
	BranchLogicalSizeLimit  *int64         `json:"branch_logical_size_limit,omitempty" yaml:"branch_logical_size_limit,omitempty"`
	CPUUsedSec              *int64         `json:"cpu_used_sec,omitempty"              yaml:"cpu_used_sec,omitempty"`
	ActiveTimeSeconds       *int64         `json:"active_time_seconds,omitempty"       yaml:"active_time_seconds,omitempty"`
	ComputeTimeSeconds      *int64         `json:"compute_time_seconds,omitempty"      yaml:"compute_time_seconds,omitempty"`
	WrittenDataBytes        *int64         `json:"written_data_bytes,omitempty"        yaml:"written_data_bytes,omitempty"`
	DataTransferBytes       *int64         `json:"data_transfer_bytes,omitempty"       yaml:"data_transfer_bytes,omitempty"`
	SyntheticStorageSize    *int64         `json:"synthetic_storage_size,omitempty"    yaml:"synthetic_storage_size,omitempty"`
	OwnerID                 *string        `json:"owner_id,omitempty"                  yaml:"owner_id,omitempty"`
	OrgID                   *string        `json:"org_id,omitempty"                    yaml:"org_id,omitempty"`
	DefaultEndpointSettings map[string]any `json:"default_endpoint_settings,omitempty" yaml:"default_endpoint_settings,omitempty"`
	Settings                map[string]any `json:"settings,omitempty"                  yaml:"settings,omitempty"`
	CreatedAt               *time.Time     `json:"created_at,omitempty"                yaml:"created_at,omitempty"`
	UpdatedAt               *time.Time     `json:"updated_at,omitempty"                yaml:"updated_at,omitempty"`
	ComputeLastActiveAt     *time.Time     `json:"compute_last_active_at,omitempty"    yaml:"compute_last_active_at,omitempty"`
}

// ProjectPermission grants a user access to a project.
type ProjectPermission struct {
	ID             string     `json:"id"                   yaml:"id"                   validate:"required"`
	GrantedToEmail string     `json:"granted_to_email"     yaml:"granted_to_email"     validate:"required"`
	GrantedAt      *time.Time `json:"granted_at,omitempty" yaml:"granted_at,omitempty"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty" yaml:"revoked_at,omitempty"`
}

// ConnectionURI is a ready-to-use Postgres connection string.
type ConnectionURI struct {
	URI string `json:"uri" yaml:"uri" validate:"required"`
}

// ConnectionDetails is a connection string together with the parameters it was built from.
type ConnectionDetails struct {
	ConnectionURI        string         `json:"connection_uri"                   yaml:"connection_uri"`
	ConnectionParameters map[string]any `json:"connection_parameters,omitempty" yaml:"connection_parameters,omitempty"`
}

// Branch is a copy-on-write branch of a project's data.
type Branch struct {
	ID                 string       `json:"id"                             yaml:"id"                             validate:"required"`
	Name               string       `json:"name"                           yaml:"name"                           validate:"required"`
	ProjectID          *string      `json:"project_id,omitempty"           yaml:"project_id,omitempty"`
	ParentID           *string      `json:"parent_id,omitempty"            yaml:"parent_id,omitempty"`
	ParentLSN          *string      `json:"parent_lsn,omitempty"           yaml:"parent_lsn,omitempty"`
	ParentTimestamp    *time.Time   `json:"parent_timestamp,omitempty"     yaml:"parent_timestamp,omitempty"`
	CurrentState       *BranchState `json:"current_state,omitempty"        yaml:"current_state,omitempty"`
	PendingState       *BranchState `json:"pending_state,omitempty"        yaml:"pending_state,omitempty"`
	StateChangedAt     *time.Time   `json:"state_changed_at,omitempty"     yaml:"state_changed_at,omitempty"`
	LogicalSize        *int64       `json:"logical_size,omitempty"         yaml:"logical_size,omitempty"`
	CreationSource     *string      `json:"creation_source,omitempty"      yaml:"creation_source,omitempty"`
	Primary            *bool        `json:"primary,omitempty"              yaml:"primary,omitempty"`
	Default            *bool        `json:"default,omitempty"              yaml:"default,omitempty"`
	Protected          *bool        `json:"protected,omitempty"            yaml:"protected,omitempty"`
	CPUUsedSec         *int64       `json:"cpu_used_sec,omitempty"         yaml:"cpu_used_sec,omitempty"`
	ComputeTimeSeconds *int64       `json:"compute_time_seconds,omitempty" yaml:"compute_time_seconds,omitempty"`
	ActiveTimeSeconds  *int64       `json:"active_time_seconds,omitempty"  yaml:"active_time_seconds,omitempty"`
	WrittenDataBytes   *int64       `json:"written_data_bytes,omitempty"   yaml:"written_data_bytes,omitempty"`
	DataTransferBytes  *int64       `json:"data_transfer_bytes,omitempty"  yaml:"data_transfer_bytes,omitempty"`
	CreatedAt          *time.Time   `json:"created_at,omitempty"           yaml:"created_at,omitempty"`
	UpdatedAt          *time.Time   `json:"updated_at,omitempty"           yaml:"updated_at,omitempty"`
	LastResetAt        *time.Time   `json:"last_reset_at,omitempty"        yaml:"last_reset_at,omitempty"`
}

// BranchOperations is returned by branch mutations: the branch plus the
// operations the change started.
type BranchOperations struct {
	Branch         Branch              `json:"branch"                    yaml:"branch"`
	Endpoints      []Endpoint          `json:"endpoints,omitempty"       yaml:"endpoints,omitempty"`
	Operations     []Operation         `json:"operations,omitempty"      yaml:"operations,omitempty"`
	Roles          []Role              `json:"roles,omitempty"           yaml:"roles,omitempty"`
	Databases      []Database          `json:"databases,omitempty"       yaml:"databases,omitempty"`
	ConnectionURIs []ConnectionDetails `json:"connection_uris,omitempty" yaml:"connection_uris,omitempty"`
}

// Database is a Postgres database on a branch.
type Database struct {
	ID        int64      `json:"id"                   yaml:"id"                   validate:"required"`
	Name      string     `json:"name"                 yaml:"name"                 validate:"required"`
	BranchID  *string    `json:"branch_id,omitempty"  yaml:"branch_id,omitempty"`
	OwnerName *string    `json:"owner_name,omitempty" yaml:"owner_name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Role is a Postgres role on a branch.
type Role struct {
	Name      string     `json:"name"                 yaml:"name"                 validate:"required"`
	BranchID  *string    `json:"branch_id,omitempty"  yaml:"branch_id,omitempty"`
	Password  *string    `json:"password,omitempty"   yaml:"password,omitempty"`
	Protected *bool      `json:"protected,omitempty"  yaml:"protected,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// RoleOperations is returned by role mutations.
type RoleOperations struct {
	Role       Role        `json:"role"                 yaml:"role"`
	Operations []Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// RolePassword holds a revealed role password.
type RolePassword struct {
	Password string `json:"password" yaml:"password" validate:"required"`
}

// Endpoint is a compute endpoint attached to a branch.
type Endpoint struct {
	ID                    string         `json:"id"                                 yaml:"id"                                 validate:"required"`
	Host                  string         `json:"host"                               yaml:"host"                               validate:"required"`
	ProjectID             *string        `json:"project_id,omitempty"               yaml:"project_id,omitempty"`
	BranchID              *string        `json:"branch_id,omitempty"                yaml:"branch_id,omitempty"`
	RegionID              *string        `json:"region_id,omitempty"                yaml:"region_id,omitempty"`
	Type                  *EndpointType  `json:"type,omitempty"                     yaml:"type,omitempty"`
	CurrentState          *EndpointState `json:"current_state,omitempty"            yaml:"current_state,omitempty"`
	PendingState          *EndpointState `json:"pending_state,omitempty"            yaml:"pending_state,omitempty"`
	AutoscalingLimitMinCU *float64       `json:"autoscaling_limit_min_cu,omitempty" yaml:"autoscaling_limit_min_cu,omitempty"`
	AutoscalingLimitMaxCU *float64       `json:"autoscaling_limit_max_cu,omitempty" yaml:"autoscaling_limit_max_cu,omitempty"`
	PoolerEnabled         *bool          `json:"pooler_enabled,omitempty"           yaml:"pooler_enabled,omitempty"`
	PoolerMode            *PoolerMode    `json:"pooler_mode,omitempty"              yaml:"pooler_mode,omitempty"`
	Disabled              *bool          `json:"disabled,omitempty"                 yaml:"disabled,omitempty"`
	PasswordlessAccess    *bool          `json:"passwordless_access,omitempty"      yaml:"passwordless_access,omitempty"`
	SuspendTimeoutSeconds *int64         `json:"suspend_timeout_seconds,omitempty"  yaml:"suspend_timeout_seconds,omitempty"`
	Provisioner           *string        `json:"provisioner,omitempty"              yaml:"provisioner,omitempty"`
	CreationSource        *string        `json:"creation_source,omitempty"          yaml:"creation_source,omitempty"`
	Settings              map[string]any `json:"settings,omitempty"                 yaml:"settings,omitempty"`
	LastActive            *time.Time     `json:"last_active,omitempty"              yaml:"last_active,omitempty"`
	CreatedAt             *time.Time     `json:"created_at,omitempty"               yaml:"created_at,omitempty"`
	UpdatedAt             *time.Time     `json:"updated_at,omitempty"               yaml:"updated_at,omitempty"`
}

// EndpointOperations is returned by endpoint mutations.
type EndpointOperations struct {
	Endpoint   Endpoint    `json:"endpoint"             yaml:"endpoint"`
	Operations []Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// Operation is an asynchronous unit of work started by a mutation.
type Operation struct {
	ID              string           `json:"id"                          yaml:"id"                          validate:"required"`
	ProjectID       *string          `json:"project_id,omitempty"        yaml:"project_id,omitempty"`
	BranchID        *string          `json:"branch_id,omitempty"         yaml:"branch_id,omitempty"`
	EndpointID      *string          `json:"endpoint_id,omitempty"       yaml:"endpoint_id,omitempty"`
	Action          *OperationAction `json:"action,omitempty"            yaml:"action,omitempty"`
	Status          *OperationStatus `json:"status,omitempty"            yaml:"status,omitempty"`
	Error           *string          `json:"error,omitempty"             yaml:"error,omitempty"`
	FailuresCount   *int             `json:"failures_count,omitempty"    yaml:"failures_count,omitempty"`
	RetryAt         *time.Time       `json:"retry_at,omitempty"          yaml:"retry_at,omitempty"`
	TotalDurationMs *int64           `json:"total_duration_ms,omitempty" yaml:"total_duration_ms,omitempty"`
	CreatedAt       *time.Time       `json:"created_at,omitempty"        yaml:"created_at,omitempty"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"        yaml:"updated_at,omitempty"`
}

// ProjectConsumption holds the consumption periods of one project.
type ProjectConsumption struct {
	ProjectID string              `json:"project_id"        yaml:"project_id"        validate:"required"`
	Periods   []ConsumptionPeriod `json:"periods,omitempty" yaml:"periods,omitempty"`
}

// ConsumptionPeriod is one billing period.
type ConsumptionPeriod struct {
	PeriodID    *string            `json:"period_id,omitempty"    yaml:"period_id,omitempty"`
	PeriodPlan  *string            `json:"period_plan,omitempty"  yaml:"period_plan,omitempty"`
	PeriodStart *time.Time         `json:"period_start,omitempty" yaml:"period_start,omitempty"`
	PeriodEnd   *time.Time         `json:"period_end,omitempty"   yaml:"period_end,omitempty"`
	Consumption []ConsumptionPoint `json:"consumption,omitempty"  yaml:"consumption,omitempty"`
}

// ConsumptionPoint is the usage within one timeframe of a period.
type ConsumptionPoint struct {
	TimeframeStart            *time.Time `json:"timeframe_start,omitempty"              yaml:"timeframe_start,omitempty"`
	TimeframeEnd              *time.Time `json:"timeframe_end,omitempty"                yaml:"timeframe_end,omitempty"`
	ActiveTimeSeconds         *int64     `json:"active_time_seconds,omitempty"          yaml:"active_time_seconds,omitempty"`
	ComputeTimeSeconds        *int64     `json:"compute_time_seconds,omitempty"         yaml:"compute_time_seconds,omitempty"`
	WrittenDataBytes          *int64     `json:"written_data_bytes,omitempty"           yaml:"written_data_bytes,omitempty"`
	SyntheticStorageSizeBytes *int64     `json:"synthetic_storage_size_bytes,omitempty" yaml:"synthetic_storage_size_bytes,omitempty"`
	DataStorageBytesHour      *int64     `json:"data_storage_bytes_hour,omitempty"      yaml:"data_storage_bytes_hour,omitempty"`
}
