package nocodb

import (
	"context"
	"net/http"
)

// TableInfo describes a table as returned by the meta API.
type TableInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TableName string `json:"table_name"`
	Type      string `json:"type"`
	Enabled   bool   `json:"enabled"`
}

// ColumnInfo describes a column as returned by the meta API.
type ColumnInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	UIDT     string `json:"uidt"`
	DataType string `json:"dt"`
	Primary  bool   `json:"pv"`
}

// ViewInfo describes a view as returned by the meta API.
type ViewInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  int    `json:"type"`
}

// Webhook describes a webhook as returned by the meta API.
type Webhook struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Event     string `json:"event"`
	Operation string `json:"operation"`
	Active    bool   `json:"active"`
}

// MetaClient exposes schema-level operations of the NocoDB meta API:
// tables, columns, views and webhooks.
//
// It shares the transport, auth and error mapping of the Client it wraps.
type MetaClient struct {
	client *Client
}

// Meta returns a MetaClient sharing this client's transport.
func (c *Client) Meta() *MetaClient {
	return &MetaClient{client: c}
}

// metaList is the envelope of list responses from the meta API.
type metaList[T any] struct {
	List []T `json:"list"`
}

// ListTables returns the tables of a base.
func (m *MetaClient) ListTables(ctx context.Context, baseID string) ([]TableInfo, error) {
	var resp metaList[TableInfo]
	if err := m.client.doJSON(ctx, http.MethodGet, "api/v2/meta/bases/"+baseID+"/tables", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// GetTableInfo returns the metadata of one table.
func (m *MetaClient) GetTableInfo(ctx context.Context, tableID string) (*TableInfo, error) {
	var info TableInfo
	if err := m.client.doJSON(ctx, http.MethodGet, "api/v2/meta/tables/"+tableID, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateTable creates a table in the base from the given definition and
// returns the created table's metadata.
func (m *MetaClient) CreateTable(ctx context.Context, baseID string, definition map[string]any) (*TableInfo, error) {
	var info TableInfo
	if err := m.client.doJSON(ctx, http.MethodPost, "api/v2/meta/bases/"+baseID+"/tables", nil, definition, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateTable patches a table definition.
func (m *MetaClient) UpdateTable(ctx context.Context, tableID string, changes map[string]any) error {
	return m.client.doJSON(ctx, http.MethodPatch, "api/v2/meta/tables/"+tableID, nil, changes, nil)
}

// DeleteTable deletes a table and all its records.
func (m *MetaClient) DeleteTable(ctx context.Context, tableID string) error {
	return m.client.doJSON(ctx, http.MethodDelete, "api/v2/meta/tables/"+tableID, nil, nil, nil)
}

// ListColumns returns the columns of a table.
func (m *MetaClient) ListColumns(ctx context.Context, tableID string) ([]ColumnInfo, error) {
	var resp metaList[ColumnInfo]
	if err := m.client.doJSON(ctx, http.MethodGet, "api/v2/meta/tables/"+tableID+"/columns", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// CreateColumn adds a column to a table.
func (m *MetaClient) CreateColumn(ctx context.Context, tableID string, definition map[string]any) (*ColumnInfo, error) {
	var info ColumnInfo
	if err := m.client.doJSON(ctx, http.MethodPost, "api/v2/meta/tables/"+tableID+"/columns", nil, definition, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateColumn patches a column definition.
func (m *MetaClient) UpdateColumn(ctx context.Context, columnID string, changes map[string]any) error {
	return m.client.doJSON(ctx, http.MethodPatch, "api/v2/meta/columns/"+columnID, nil, changes, nil)
}

// DeleteColumn removes a column from its table.
func (m *MetaClient) DeleteColumn(ctx context.Context, columnID string) error {
	return m.client.doJSON(ctx, http.MethodDelete, "api/v2/meta/columns/"+columnID, nil, nil, nil)
}

// ListViews returns the views of a table.
func (m *MetaClient) ListViews(ctx context.Context, tableID string) ([]ViewInfo, error) {
	var resp metaList[ViewInfo]
	if err := m.client.doJSON(ctx, http.MethodGet, "api/v2/meta/tables/"+tableID+"/views", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// CreateView creates a view on a table.
func (m *MetaClient) CreateView(ctx context.Context, tableID string, definition map[string]any) (*ViewInfo, error) {
	var info ViewInfo
	if err := m.client.doJSON(ctx, http.MethodPost, "api/v2/meta/tables/"+tableID+"/views", nil, definition, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateView patches a view definition.
func (m *MetaClient) UpdateView(ctx context.Context, viewID string, changes map[string]any) error {
	return m.client.doJSON(ctx, http.MethodPatch, "api/v2/meta/views/"+viewID, nil, changes, nil)
}

// DeleteView deletes a view.
func (m *MetaClient) DeleteView(ctx context.Context, viewID string) error {
	return m.client.doJSON(ctx, http.MethodDelete, "api/v2/meta/views/"+viewID, nil, nil, nil)
}

// ListWebhooks returns the webhooks of a table.
func (m *MetaClient) ListWebhooks(ctx context.Context, tableID string) ([]Webhook, error) {
	var resp metaList[Webhook]
	if err := m.client.doJSON(ctx, http.MethodGet, "api/v2/meta/tables/"+tableID+"/hooks", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// CreateWebhook registers a webhook on a table.
func (m *MetaClient) CreateWebhook(ctx context.Context, tableID string, definition map[string]any) (*Webhook, error) {
	var hook Webhook
	if err := m.client.doJSON(ctx, http.MethodPost, "api/v2/meta/tables/"+tableID+"/hooks", nil, definition, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// UpdateWebhook patches a webhook definition.
func (m *MetaClient) UpdateWebhook(ctx context.Context, hookID string, changes map[string]any) error {
	return m.client.doJSON(ctx, http.MethodPatch, "api/v2/meta/hooks/"+hookID, nil, changes, nil)
}

// DeleteWebhook removes a webhook.
func (m *MetaClient) DeleteWebhook(ctx context.Context, hookID string) error {
	return m.client.doJSON(ctx, http.MethodDelete, "api/v2/meta/hooks/"+hookID, nil, nil, nil)
}

// TestWebhook triggers a test delivery of the webhook.
func (m *MetaClient) TestWebhook(ctx context.Context, hookID string) error {
	return m.client.doJSON(ctx, http.MethodPost, "api/v2/meta/hooks/"+hookID+"/test", nil, map[string]any{}, nil)
}
