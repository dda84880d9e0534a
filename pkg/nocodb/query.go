package nocodb

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultQueryLimit is the record limit used when QueryParams.Limit is zero.
const DefaultQueryLimit = 25

// MaxQueryLimit is the maximum record limit accepted for one GetRecords call.
const MaxQueryLimit = 10000

// QueryParams holds the list-query parameters of the data API.
//
// The zero value is a valid query returning the first DefaultQueryLimit
// records in table order.
type QueryParams struct {
	// Sort is the sort criteria, e.g. "Id" or "-CreatedAt". A leading
	// minus selects descending order.
	Sort string

	// Where is a NocoDB filter expression, e.g. "(Name,eq,John)".
	Where string

	// Fields restricts the returned columns. Empty returns all fields.
	Fields []string

	// Limit caps the number of records returned. Zero means
	// DefaultQueryLimit; values above MaxQueryLimit are rejected.
	Limit int
}

// Validate checks the query parameters against the API's accepted ranges.
func (q QueryParams) Validate() error {
	if q.Limit < 0 {
		return &ValidationError{Message: "limit must not be negative"}
	}
	if q.Limit > MaxQueryLimit {
		return &ValidationError{Message: fmt.Sprintf("limit must not exceed %d", MaxQueryLimit)}
	}
	for _, field := range q.Fields {
		if strings.TrimSpace(field) == "" {
			return &ValidationError{Message: "field names must be non-empty"}
		}
	}
	if q.Where != "" && strings.TrimSpace(q.Where) == "" {
		return &ValidationError{Message: "where clause must not be blank"}
	}
	return nil
}

// values converts the parameters to URL query values, omitting empty ones.
// Limit and offset are managed by the pagination loop, not here.
func (q QueryParams) values() url.Values {
	params := url.Values{}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	if len(q.Fields) > 0 {
		params.Set("fields", strings.Join(q.Fields, ","))
	}
	return params
}
