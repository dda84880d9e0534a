package nocodb

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTables(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/meta/bases/base1/tables", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"list": []TableInfo{
				{ID: "tbl1", Title: "Customers"},
				{ID: "tbl2", Title: "Orders"},
			},
		})
	}))

	tables, err := client.Meta().ListTables(context.Background(), "base1")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Customers", tables[0].Title)
}

func TestCreateTable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Invoices", body["title"])

		writeJSON(t, w, http.StatusOK, TableInfo{ID: "tbl9", Title: "Invoices"})
	}))

	info, err := client.Meta().CreateTable(context.Background(), "base1", map[string]any{"title": "Invoices"})
	require.NoError(t, err)
	assert.Equal(t, "tbl9", info.ID)
}

func TestListColumns(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/meta/tables/tbl1/columns", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"list": []ColumnInfo{{ID: "col1", Title: "Name", UIDT: "SingleLineText"}},
		})
	}))

	columns, err := client.Meta().ListColumns(context.Background(), "tbl1")
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "SingleLineText", columns[0].UIDT)
}

func TestDeleteWebhook(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		writeJSON(t, w, http.StatusOK, map[string]bool{"success": true})
	}))

	err := client.Meta().DeleteWebhook(context.Background(), "hook1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE /api/v2/meta/hooks/hook1", gotPath)
}

func TestMeta_ErrorMapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{
			"error":   "TABLE_NOT_FOUND",
			"message": "Table 'tblX' not found",
		})
	}))

	_, err := client.Meta().GetTableInfo(context.Background(), "tblX")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "TABLE_NOT_FOUND", apiErr.Code)
}
