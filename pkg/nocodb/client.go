// Package nocodb implements a client for the NocoDB v2 REST API.
//
// The package provides three layers:
//
//   - Client: the low-level REST client for record CRUD, storage uploads
//     and attachment downloads.
//   - FileManager: attachment handling (validation, hashing, batch upload,
//     download, summaries) over an abstract RecordClient capability.
//   - Table: a convenience facade binding a fixed table id.
//
// All blocking operations take a context.Context. The client never retries;
// timeout and retry policy belong to the caller or the configured
// http.Client.
package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/internal/logger"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/internal/ratelimiter"
	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/metrics"
)

// maxPageSize is the maximum records NocoDB returns per list request.
// GetRecords batches larger limits into multiple requests of this size.
const maxPageSize = 100

// downloadBufferSize is the copy buffer used when streaming attachment
// content to disk.
const downloadBufferSize = 8 * 1024

// DefaultAccessProtectionHeader is the header name used for the optional
// access-protection token when none is configured.
const DefaultAccessProtectionHeader = "X-BAUERGROUP-Auth"

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the root URL of the NocoDB instance, e.g. "https://app.nocodb.com"
	BaseURL string

	// APIToken is the xc-token used for authentication
	APIToken string

	// AccessProtectionAuth is an optional value sent in the access
	// protection header. Empty disables the header.
	AccessProtectionAuth string

	// AccessProtectionHeader overrides the access protection header name.
	// Defaults to DefaultAccessProtectionHeader.
	AccessProtectionHeader string

	// Timeout is the per-request timeout. Zero means no timeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound API calls. Zero disables
	// throttling.
	RequestsPerSecond uint

	// MaxRedirects caps how many redirects a request may follow. Zero
	// selects the http.Client default of 10.
	MaxRedirects int

	// HTTPClient overrides the underlying transport. When set, Timeout is
	// ignored in favor of the provided client's own settings.
	HTTPClient *http.Client

	// Metrics receives request observations. Nil disables instrumentation.
	Metrics metrics.ClientMetrics
}

// Client is a NocoDB v2 REST API client.
//
// A Client is safe for concurrent use. It holds no per-call state beyond
// the HTTP connection pool of its http.Client.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	limiter    *ratelimiter.RateLimiter
	metrics    metrics.ClientMetrics
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg ClientConfig) *Client {
	headers := map[string]string{
		"Accept":   "application/json",
		"xc-token": cfg.APIToken,
	}
	if cfg.AccessProtectionAuth != "" {
		header := cfg.AccessProtectionHeader
		if header == "" {
			header = DefaultAccessProtectionHeader
		}
		headers[header] = cfg.AccessProtectionAuth
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
		if cfg.MaxRedirects > 0 {
			limit := cfg.MaxRedirects
			httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
				if len(via) >= limit {
					return fmt.Errorf("stopped after %d redirects", limit)
				}
				return nil
			}
		}
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNoopClientMetrics()
	}

	var limiter *ratelimiter.RateLimiter
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimiter.New(cfg.RequestsPerSecond, cfg.RequestsPerSecond*2)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		httpClient: httpClient,
		limiter:    limiter,
		metrics:    m,
	}
}

// do performs one HTTP request against the API, applying rate limiting,
// auth headers, error mapping and metrics. The returned response body is
// open; the caller must close it.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body io.Reader, contentType string) (*http.Response, error) {
	op := method + " " + endpoint

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}
	}

	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveRequest(method, endpoint, time.Since(start), err)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	logger.Debug("%s -> %d", op, resp.StatusCode)
	return resp, nil
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into result when result is non-nil.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, params url.Values, payload, result any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, endpoint, params, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &TransportError{Op: method + " " + endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

// decodeAPIError maps an HTTP error response to an APIError. NocoDB reports
// failures as {"error": CODE, "message": text}; responses without that shape
// are mapped to a generic HTTP_ERROR code.
func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
		return &APIError{Code: apiErr.Error, Message: apiErr.Message, StatusCode: resp.StatusCode}
	}

	return &APIError{
		Code:       "HTTP_ERROR",
		Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
		StatusCode: resp.StatusCode,
	}
}

// formatRecordID normalizes the Id field of an API response to a string.
// NocoDB returns numeric ids for most tables and string ids for some views.
func formatRecordID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

// recordsEndpoint returns the data API endpoint for a table.
func recordsEndpoint(tableID string) string {
	return "api/v2/tables/" + tableID + "/records"
}

// GetRecords retrieves up to limit records from a table.
//
// Requests are batched at the API's page size (100) and follow pageInfo
// until the limit is satisfied or the last page is reached. The sort,
// where and fields parameters are passed through to the API unchanged;
// empty values are omitted.
func (c *Client) GetRecords(ctx context.Context, tableID string, opts QueryParams) ([]Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var records []Record
	offset := 0

	for len(records) < limit {
		batchLimit := limit - len(records)
		if batchLimit > maxPageSize {
			batchLimit = maxPageSize
		}

		params := opts.values()
		params.Set("limit", strconv.Itoa(batchLimit))
		params.Set("offset", strconv.Itoa(offset))

		var page struct {
			List     []Record `json:"list"`
			PageInfo PageInfo `json:"pageInfo"`
		}
		if err := c.doJSON(ctx, http.MethodGet, recordsEndpoint(tableID), params, nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.List...)
		offset += len(page.List)

		if page.PageInfo.IsLastPage || len(page.List) == 0 {
			break
		}
	}

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// GetRecord retrieves a single record by id. When fields is non-empty only
// those fields are returned.
func (c *Client) GetRecord(ctx context.Context, tableID, recordID string, fields ...string) (Record, error) {
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var record Record
	if err := c.doJSON(ctx, http.MethodGet, recordsEndpoint(tableID)+"/"+recordID, params, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// ReadRecord retrieves the full record. It is the record-read capability
// consumed by FileManager.
func (c *Client) ReadRecord(ctx context.Context, tableID, recordID string) (Record, error) {
	return c.GetRecord(ctx, tableID, recordID)
}

// InsertRecord creates a new record and returns its id.
func (c *Client) InsertRecord(ctx context.Context, tableID string, record Record) (string, error) {
	var resp Record
	if err := c.doJSON(ctx, http.MethodPost, recordsEndpoint(tableID), nil, record, &resp); err != nil {
		return "", err
	}
	return formatRecordID(resp["Id"]), nil
}

// UpdateRecord patches the given fields of a record and returns the id
// echoed by the API. It is the record-update capability consumed by
// FileManager.
func (c *Client) UpdateRecord(ctx context.Context, tableID, recordID string, fields map[string]any) (string, error) {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["Id"] = recordID

	var resp Record
	if err := c.doJSON(ctx, http.MethodPatch, recordsEndpoint(tableID), nil, payload, &resp); err != nil {
		return "", err
	}
	return formatRecordID(resp["Id"]), nil
}

// DeleteRecord deletes a record and returns the id echoed by the API.
func (c *Client) DeleteRecord(ctx context.Context, tableID, recordID string) (string, error) {
	var resp Record
	if err := c.doJSON(ctx, http.MethodDelete, recordsEndpoint(tableID), nil, map[string]any{"Id": recordID}, &resp); err != nil {
		return "", err
	}
	return formatRecordID(resp["Id"]), nil
}

// CountRecords returns the number of records matching the optional where
// filter.
func (c *Client) CountRecords(ctx context.Context, tableID, where string) (int, error) {
	params := url.Values{}
	if where != "" {
		params.Set("where", where)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, recordsEndpoint(tableID)+"/count", params, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// UploadRaw uploads one local file to NocoDB storage under the table's file
// area and returns the storage descriptor. It is the raw-upload capability
// consumed by FileManager; no validation is performed here.
func (c *Client) UploadRaw(ctx context.Context, tableID, path string) (*UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Kind: "file", Key: path}
		}
		return nil, &FilesystemError{Path: path, Err: err}
	}
	defer file.Close()

	// Stream the multipart body through a pipe so large attachments never
	// sit fully in memory. The transport closes the read end when it is
	// done with the request body, which unblocks the writer goroutine.
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var (
		written  int64
		buildErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		buildErr = func() error {
			if err := writer.WriteField("path", "files/"+tableID); err != nil {
				return fmt.Errorf("failed to build multipart body: %w", err)
			}
			part, err := createFormFile(writer, "file", filepath.Base(path), mimeType)
			if err != nil {
				return fmt.Errorf("failed to build multipart body: %w", err)
			}
			n, err := io.Copy(part, file)
			written = n
			if err != nil {
				return &FilesystemError{Path: path, Err: err}
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("failed to build multipart body: %w", err)
			}
			return nil
		}()
		pw.CloseWithError(buildErr)
	}()

	resp, err := c.do(ctx, http.MethodPost, "api/v2/storage/upload", nil, pr, writer.FormDataContentType())
	if err != nil {
		pr.CloseWithError(err)
		<-done
		if buildErr != nil {
			return nil, buildErr
		}
		return nil, err
	}
	<-done
	defer resp.Body.Close()
	if buildErr != nil {
		return nil, buildErr
	}
	c.metrics.RecordBytes("upload", written)

	result, err := decodeUploadResponse(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "POST api/v2/storage/upload", Err: err}
	}
	return result, nil
}

// decodeUploadResponse handles both response shapes of the storage upload
// endpoint: a JSON array of descriptors (current API) and a single object
// (older deployments).
func decodeUploadResponse(r io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var list []UploadResult
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return nil, fmt.Errorf("empty upload response")
		}
		return &list[0], nil
	}

	var single UploadResult
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &single, nil
}

// createFormFile is like multipart.Writer.CreateFormFile but with an
// explicit Content-Type instead of application/octet-stream.
func createFormFile(w *multipart.Writer, fieldName, fileName, contentType string) (io.Writer, error) {
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{
		fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fileName),
	}
	h["Content-Type"] = []string{contentType}
	return w.CreatePart(h)
}

// DownloadAttachment returns a reader for the content of the attachment at
// the zero-based index of the field's attachment list. It is the download
// capability consumed by FileManager. The caller must close the reader.
func (c *Client) DownloadAttachment(ctx context.Context, tableID, recordID, fieldName string, index int) (io.ReadCloser, error) {
	record, err := c.GetRecord(ctx, tableID, recordID, fieldName)
	if err != nil {
		return nil, err
	}

	attachments, err := attachmentsFromField(record, fieldName)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(attachments) {
		return nil, &NotFoundError{Kind: "attachment", Key: fmt.Sprintf("%s[%d]", fieldName, index)}
	}

	return c.fetchAttachment(ctx, attachments[index])
}

// fetchAttachment retrieves the binary content of one attachment, preferring
// the signed path over the public URL.
func (c *Client) fetchAttachment(ctx context.Context, att Attachment) (io.ReadCloser, error) {
	target := att.SignedPath
	if target != "" && !strings.HasPrefix(target, "http") {
		target = c.baseURL + "/" + strings.TrimLeft(target, "/")
	}
	if target == "" {
		target = att.URL
	}
	if target == "" {
		return nil, &NotFoundError{Kind: "attachment", Key: att.Title}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: "GET " + target, Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET " + target, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &APIError{
			Code:       "DOWNLOAD_ERROR",
			Message:    fmt.Sprintf("failed to download %s: status %d", att.Title, resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}
	return resp.Body, nil
}

// AppendFilesToRecord uploads local files and appends them to the existing
// attachment list of the field, preserving attachments already present.
//
// This mirrors the append semantics of older client versions. For
// replace semantics use FileManager.AttachFilesToRecord.
func (c *Client) AppendFilesToRecord(ctx context.Context, tableID, recordID, fieldName string, paths []string) (string, error) {
	record, err := c.GetRecord(ctx, tableID, recordID, fieldName)
	if err != nil {
		return "", err
	}

	existing, err := attachmentsFromField(record, fieldName)
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		result, err := c.UploadRaw(ctx, tableID, path)
		if err != nil {
			return "", err
		}
		existing = append(existing, Attachment{
			URL:        result.URL,
			Title:      result.Title,
			MimeType:   result.MimeType,
			Size:       result.Size,
			SignedPath: result.SignedPath,
		})
	}

	return c.UpdateRecord(ctx, tableID, recordID, map[string]any{fieldName: existing})
}

// ClearAttachmentField removes all attachments from the field by setting it
// to an empty list. Returns the id echoed by the update.
func (c *Client) ClearAttachmentField(ctx context.Context, tableID, recordID, fieldName string) (string, error) {
	return c.UpdateRecord(ctx, tableID, recordID, map[string]any{fieldName: []Attachment{}})
}

// attachmentsFromField decodes the attachment list stored in a record field.
// A nil or missing field decodes to an empty list. A field holding anything
// other than a descriptor list fails with a ValidationError.
func attachmentsFromField(record Record, fieldName string) ([]Attachment, error) {
	value, ok := record[fieldName]
	if !ok || value == nil {
		return nil, nil
	}

	// The field value arrives as decoded JSON; round-trip through encoding
	// to convert into typed descriptors.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("field %s is not an attachment field", fieldName)}
	}

	// NocoDB stores an empty attachment field as the JSON string "[]".
	if s := strings.TrimSpace(string(data)); s == `"[]"` || s == `""` {
		return nil, nil
	}

	var attachments []Attachment
	if err := json.Unmarshal(data, &attachments); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("field %s is not an attachment field", fieldName)}
	}
	return attachments, nil
}
