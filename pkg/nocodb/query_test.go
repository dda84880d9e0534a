package nocodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  QueryParams
		wantErr string
	}{
		{"zero value", QueryParams{}, ""},
		{"full query", QueryParams{Sort: "-Id", Where: "(Age,gt,30)", Fields: []string{"Name"}, Limit: 50}, ""},
		{"max limit", QueryParams{Limit: MaxQueryLimit}, ""},
		{"negative limit", QueryParams{Limit: -1}, "limit must not be negative"},
		{"limit too large", QueryParams{Limit: MaxQueryLimit + 1}, "limit must not exceed"},
		{"blank field", QueryParams{Fields: []string{"Name", " "}}, "field names must be non-empty"},
		{"blank where", QueryParams{Where: "   "}, "where clause must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQueryParamsValues(t *testing.T) {
	params := QueryParams{
		Sort:   "-CreatedAt",
		Where:  "(Name,eq,John)",
		Fields: []string{"Name", "Age"},
	}.values()

	assert.Equal(t, "-CreatedAt", params.Get("sort"))
	assert.Equal(t, "(Name,eq,John)", params.Get("where"))
	assert.Equal(t, "Name,Age", params.Get("fields"))

	empty := QueryParams{}.values()
	assert.Empty(t, empty)
}
