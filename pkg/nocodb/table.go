package nocodb

import "context"

// Table is a convenience wrapper binding a fixed table id to client and
// file-manager operations.
//
// Every method forwards 1:1 to the corresponding Client or FileManager
// method with the table id pre-filled; the wrapper adds no validation,
// error handling or transformation of its own.
type Table struct {
	client  *Client
	files   *TableFileManager
	tableID string
}

// NewTable creates a Table bound to tableID. File operations use a
// FileManager constructed with the given options.
func NewTable(client *Client, tableID string, opts ...FileManagerOption) *Table {
	return &Table{
		client:  client,
		tableID: tableID,
		files: &TableFileManager{
			fm:      NewFileManager(client, opts...),
			tableID: tableID,
		},
	}
}

// ID returns the bound table id.
func (t *Table) ID() string {
	return t.tableID
}

// Files returns the file-manager facade bound to this table.
func (t *Table) Files() *TableFileManager {
	return t.files
}

// GetRecords retrieves records from the table. See Client.GetRecords.
func (t *Table) GetRecords(ctx context.Context, opts QueryParams) ([]Record, error) {
	return t.client.GetRecords(ctx, t.tableID, opts)
}

// GetRecord retrieves a single record by id. See Client.GetRecord.
func (t *Table) GetRecord(ctx context.Context, recordID string, fields ...string) (Record, error) {
	return t.client.GetRecord(ctx, t.tableID, recordID, fields...)
}

// InsertRecord creates a new record and returns its id.
func (t *Table) InsertRecord(ctx context.Context, record Record) (string, error) {
	return t.client.InsertRecord(ctx, t.tableID, record)
}

// UpdateRecord patches the given fields of a record.
func (t *Table) UpdateRecord(ctx context.Context, recordID string, fields map[string]any) (string, error) {
	return t.client.UpdateRecord(ctx, t.tableID, recordID, fields)
}

// DeleteRecord deletes a record by id.
func (t *Table) DeleteRecord(ctx context.Context, recordID string) (string, error) {
	return t.client.DeleteRecord(ctx, t.tableID, recordID)
}

// CountRecords counts records matching the optional where filter.
func (t *Table) CountRecords(ctx context.Context, where string) (int, error) {
	return t.client.CountRecords(ctx, t.tableID, where)
}

// AppendFilesToRecord appends uploads to the field's existing attachments.
// See Client.AppendFilesToRecord.
func (t *Table) AppendFilesToRecord(ctx context.Context, recordID, fieldName string, paths []string) (string, error) {
	return t.client.AppendFilesToRecord(ctx, t.tableID, recordID, fieldName, paths)
}

// ClearAttachmentField removes all attachments from the field.
func (t *Table) ClearAttachmentField(ctx context.Context, recordID, fieldName string) (string, error) {
	return t.client.ClearAttachmentField(ctx, t.tableID, recordID, fieldName)
}

// TableFileManager exposes all FileManager operations with the table id
// bound at construction.
//
// It is a pure forwarding facade: stateless beyond the bound id, with no
// independent logic.
type TableFileManager struct {
	fm      *FileManager
	tableID string
}

// NewTableFileManager binds tableID to an existing FileManager.
func NewTableFileManager(fm *FileManager, tableID string) *TableFileManager {
	return &TableFileManager{fm: fm, tableID: tableID}
}

// UploadFile validates and uploads one local file. See
// FileManager.UploadFile.
func (t *TableFileManager) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	return t.fm.UploadFile(ctx, t.tableID, path)
}

// UploadFilesBatch uploads the files in order, fail-fast. See
// FileManager.UploadFilesBatch.
func (t *TableFileManager) UploadFilesBatch(ctx context.Context, paths []string) ([]UploadResult, error) {
	return t.fm.UploadFilesBatch(ctx, t.tableID, paths)
}

// AttachFilesToRecord uploads the files and sets the field to the result.
// See FileManager.AttachFilesToRecord.
func (t *TableFileManager) AttachFilesToRecord(ctx context.Context, recordID, fieldName string, paths []string) (string, error) {
	return t.fm.AttachFilesToRecord(ctx, t.tableID, recordID, fieldName, paths)
}

// DownloadFile downloads one attachment by index. See
// FileManager.DownloadFile.
func (t *TableFileManager) DownloadFile(ctx context.Context, recordID, fieldName string, index int, destPath string) (string, error) {
	return t.fm.DownloadFile(ctx, t.tableID, recordID, fieldName, index, destPath)
}

// DownloadRecordAttachments downloads all attachments of the field. See
// FileManager.DownloadRecordAttachments.
func (t *TableFileManager) DownloadRecordAttachments(ctx context.Context, recordID, fieldName, destDir string) ([]string, error) {
	return t.fm.DownloadRecordAttachments(ctx, t.tableID, recordID, fieldName, destDir)
}

// BulkDownloadAttachments downloads attachments across records. See
// FileManager.BulkDownloadAttachments.
func (t *TableFileManager) BulkDownloadAttachments(ctx context.Context, recordIDs []string, fieldName, destDir string) (map[string][]string, error) {
	return t.fm.BulkDownloadAttachments(ctx, t.tableID, recordIDs, fieldName, destDir)
}

// GetAttachmentInfo returns the field's current attachment list. See
// FileManager.GetAttachmentInfo.
func (t *TableFileManager) GetAttachmentInfo(ctx context.Context, recordID, fieldName string) ([]Attachment, error) {
	return t.fm.GetAttachmentInfo(ctx, t.tableID, recordID, fieldName)
}

// CreateAttachmentSummary aggregates the field's attachments. See
// FileManager.CreateAttachmentSummary.
func (t *TableFileManager) CreateAttachmentSummary(ctx context.Context, recordID, fieldName string) (*AttachmentSummary, error) {
	return t.fm.CreateAttachmentSummary(ctx, t.tableID, recordID, fieldName)
}

// ValidateFile validates a local file. See FileManager.ValidateFile.
func (t *TableFileManager) ValidateFile(path string) (*FileValidationResult, error) {
	return t.fm.ValidateFile(path)
}

// CalculateFileHash computes a local file digest. See
// FileManager.CalculateFileHash.
func (t *TableFileManager) CalculateFileHash(path string, algorithm HashAlgorithm) (string, error) {
	return t.fm.CalculateFileHash(path, algorithm)
}

// CleanupTempFiles clears the manager's temporary directory. See
// FileManager.CleanupTempFiles.
func (t *TableFileManager) CleanupTempFiles(dirPath string) (int, error) {
	return t.fm.CleanupTempFiles(dirPath)
}
