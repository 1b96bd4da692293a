package neon

import (
	"net/url"
	"strconv"
	"time"

	"github.com/neondatabase/neon-api-go/internal/constants"
)

// ListOptions are the cursor pagination parameters shared by every paginated list.
type ListOptions struct {
	Cursor string
	Limit  int
}

// Values encodes the options as query parameters, omitting unset ones.
func (o *ListOptions) Values() url.Values {
	v := url.Values{}
	if o == nil {
		return v
	}

	if o.Cursor != "" {
		v.Set(constants.QueryCursor, o.Cursor)
	}

	if o.Limit > 0 {
		v.Set(constants.QueryLimit, strconv.Itoa(o.Limit))
	}

	return v
}

// ProjectListOptions filters the project listing. Shared selects the
// projects shared with the caller instead of the owned ones.
type ProjectListOptions struct {
	ListOptions

	Shared bool
	Search string
	OrgID  string
}

// Values encodes the options as query parameters, omitting unset ones.
func (o *ProjectListOptions) Values() url.Values {
	if o == nil {
		return url.Values{}
	}

	v := o.ListOptions.Values()
	setIfPresent(v, constants.QuerySearch, o.Search)
	setIfPresent(v, constants.QueryOrgID, o.OrgID)

	return v
}

// BranchListOptions filters the branch listing.
type BranchListOptions struct {
	ListOptions

	Search string
}

// Values encodes the options as query parameters, omitting unset ones.
func (o *BranchListOptions) Values() url.Values {
	if o == nil {
		return url.Values{}
	}

	v := o.ListOptions.Values()
	setIfPresent(v, constants.QuerySearch, o.Search)

	return v
}

// ConnectionURIOptions selects the branch, endpoint, database and role a
// connection URI is built for. Unset values fall back to the project defaults.
type ConnectionURIOptions struct {
	BranchID     string
	EndpointID   string
	DatabaseName string
	RoleName     string
	Pooled       *bool
}

// Values encodes the options as query parameters, omitting unset ones.
func (o *ConnectionURIOptions) Values() url.Values {
	v := url.Values{}
	if o == nil {
		return v
	}

	setIfPresent(v, constants.QueryBranchID, o.BranchID)
	setIfPresent(v, constants.QueryEndpointID, o.EndpointID)
	setIfPresent(v, constants.QueryDatabaseName, o.DatabaseName)
	setIfPresent(v, constants.QueryRoleName, o.RoleName)

	if o.Pooled != nil {
		v.Set(constants.QueryPooled, strconv.FormatBool(*o.Pooled))
	}

	return v
}

// ConsumptionListOptions bounds the consumption listing in time.
type ConsumptionListOptions struct {
	ListOptions

	From time.Time
	To   time.Time
}

// Values encodes the options as query parameters, omitting unset ones.
// Times are sent as RFC 3339 in UTC.
func (o *ConsumptionListOptions) Values() url.Values {
	if o == nil {
		return url.Values{}
	}

	v := o.ListOptions.Values()

	if !o.From.IsZero() {
		v.Set(constants.QueryFrom, o.From.UTC().Format(time.RFC3339))
	}

	if !o.To.IsZero() {
		v.Set(constants.QueryTo, o.To.UTC().Format(time.RFC3339))
	}

	return v
}

func setIfPresent(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
