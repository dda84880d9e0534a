package nocodb

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/internal/logger"
)

// RecordClient is the minimal client capability FileManager requires.
//
// *Client satisfies this interface; tests substitute fakes. Keeping the
// dependency abstract means the attachment layer never needs to know about
// HTTP, auth or wire formats.
type RecordClient interface {
	// UploadRaw performs one binary upload to the table's storage area
	// and returns the resulting descriptor.
	UploadRaw(ctx context.Context, tableID, path string) (*UploadResult, error)

	// ReadRecord retrieves the full record.
	ReadRecord(ctx context.Context, tableID, recordID string) (Record, error)

	// UpdateRecord patches the given fields and returns the record id
	// echoed by the service.
	UpdateRecord(ctx context.Context, tableID, recordID string, fields map[string]any) (string, error)

	// DownloadAttachment returns the binary content of the attachment at
	// the zero-based index of the field's attachment list.
	DownloadAttachment(ctx context.Context, tableID, recordID, fieldName string, index int) (io.ReadCloser, error)
}

// FileManager handles file attachments for NocoDB records: validation,
// hashing, single and batch upload, download and metadata aggregation.
//
// FileManager holds no cache and no per-call state; every read goes to the
// backing client or the local filesystem. Instances are safe to reuse.
//
// Batch and bulk operations are fail-fast: the first error aborts the
// remaining work, and steps already completed (uploads issued, files
// written) are not rolled back. Callers must assume partial completion
// on error.
type FileManager struct {
	client  RecordClient
	tempDir string
}

// FileManagerOption configures a FileManager.
type FileManagerOption func(*FileManager)

// WithTempDir sets the directory used for temporary files. Defaults to a
// "nocodb-client" directory under the system temp dir.
func WithTempDir(dir string) FileManagerOption {
	return func(fm *FileManager) {
		fm.tempDir = dir
	}
}

// NewFileManager creates a FileManager backed by the given client capability.
func NewFileManager(client RecordClient, opts ...FileManagerOption) *FileManager {
	fm := &FileManager{
		client:  client,
		tempDir: filepath.Join(os.TempDir(), "nocodb-client"),
	}
	for _, opt := range opts {
		opt(fm)
	}
	return fm
}

// TempDir returns the directory this instance uses for temporary files.
func (fm *FileManager) TempDir() string {
	return fm.tempDir
}

// TempFilePath returns a collision-free path under the manager's temp
// directory for a file with the given name, creating the directory if
// needed.
func (fm *FileManager) TempFilePath(name string) (string, error) {
	if err := os.MkdirAll(fm.tempDir, 0755); err != nil {
		return "", &FilesystemError{Path: fm.tempDir, Err: err}
	}
	return filepath.Join(fm.tempDir, uuid.NewString()+"-"+filepath.Base(name)), nil
}

// ValidateFile checks that path is an existing readable file and returns
// its size, MIME type and SHA-256 hash. See ValidateFile for details.
func (fm *FileManager) ValidateFile(path string) (*FileValidationResult, error) {
	return ValidateFile(path)
}

// CalculateFileHash computes the content digest of a local file. See
// CalculateFileHash for supported algorithms.
func (fm *FileManager) CalculateFileHash(path string, algorithm HashAlgorithm) (string, error) {
	return CalculateFileHash(path, algorithm)
}

// UploadFile validates the local file and uploads it to the table's
// storage area.
//
// Validation failures propagate unchanged and no upload is attempted, so
// an unvalidated file is never transferred.
func (fm *FileManager) UploadFile(ctx context.Context, tableID, path string) (*UploadResult, error) {
	if _, err := ValidateFile(path); err != nil {
		return nil, err
	}
	return fm.client.UploadRaw(ctx, tableID, path)
}

// UploadFilesBatch validates and uploads the given files in order, one at
// a time.
//
// An empty input returns an empty result without any client calls. The
// first validation or upload failure aborts the batch and propagates the
// error; files uploaded before the failure are not rolled back. On success
// the result order matches the input order exactly.
func (fm *FileManager) UploadFilesBatch(ctx context.Context, tableID string, paths []string) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(paths))
	for _, path := range paths {
		result, err := fm.UploadFile(ctx, tableID, path)
		if err != nil {
			return nil, fmt.Errorf("batch upload failed at %s: %w", path, err)
		}
		results = append(results, *result)
	}
	return results, nil
}

// AttachFilesToRecord uploads the files as a batch and sets fieldName to
// the resulting attachment list with exactly one record update.
//
// Inherits the batch fail-fast policy: if any upload fails, no update is
// issued and the record is left unmodified. Returns the record id echoed
// by the update.
func (fm *FileManager) AttachFilesToRecord(ctx context.Context, tableID, recordID, fieldName string, paths []string) (string, error) {
	results, err := fm.UploadFilesBatch(ctx, tableID, paths)
	if err != nil {
		return "", err
	}

	attachments := make([]Attachment, len(results))
	for i, r := range results {
		attachments[i] = Attachment{
			URL:        r.URL,
			Title:      r.Title,
			MimeType:   r.MimeType,
			Size:       r.Size,
			SignedPath: r.SignedPath,
		}
	}

	return fm.client.UpdateRecord(ctx, tableID, recordID, map[string]any{fieldName: attachments})
}

// DownloadFile fetches the attachment at the zero-based index of the
// field's attachment list and writes it to destPath in binary mode,
// creating or truncating as needed. Parent directories are created.
//
// Returns destPath on success. Errors from the client (missing record,
// field or index) propagate unchanged.
func (fm *FileManager) DownloadFile(ctx context.Context, tableID, recordID, fieldName string, index int, destPath string) (string, error) {
	body, err := fm.client.DownloadAttachment(ctx, tableID, recordID, fieldName, index)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &FilesystemError{Path: destPath, Err: err}
		}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", &FilesystemError{Path: destPath, Err: err}
	}

	buf := make([]byte, downloadBufferSize)
	if _, err := io.CopyBuffer(out, body, buf); err != nil {
		out.Close()
		return "", &FilesystemError{Path: destPath, Err: err}
	}
	if err := out.Close(); err != nil {
		return "", &FilesystemError{Path: destPath, Err: err}
	}

	logger.Debug("Downloaded %s[%d] of record %s to %s", fieldName, index, recordID, destPath)
	return destPath, nil
}

// DownloadRecordAttachments downloads every attachment of the field into
// destDir, using each descriptor's title as the file name.
//
// Downloads happen in attachment list order and the returned paths keep
// that order. The first failure aborts the remaining downloads; files
// already written stay on disk.
func (fm *FileManager) DownloadRecordAttachments(ctx context.Context, tableID, recordID, fieldName, destDir string) ([]string, error) {
	attachments, err := fm.GetAttachmentInfo(ctx, tableID, recordID, fieldName)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(attachments))
	for i, att := range attachments {
		dest := filepath.Join(destDir, att.Title)
		if _, err := fm.DownloadFile(ctx, tableID, recordID, fieldName, i, dest); err != nil {
			return nil, fmt.Errorf("failed to download attachment %q: %w", att.Title, err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// BulkDownloadAttachments downloads the field's attachments for every
// record id, in the given order, into a per-record subdirectory of destDir
// (destDir/<recordID>) so equal titles across records cannot collide.
//
// The result maps each record id to its ordered list of written paths.
// A failure for any record aborts the whole bulk operation; results for
// records processed before the failure stay on disk but are not returned.
func (fm *FileManager) BulkDownloadAttachments(ctx context.Context, tableID string, recordIDs []string, fieldName, destDir string) (map[string][]string, error) {
	results := make(map[string][]string, len(recordIDs))
	for _, recordID := range recordIDs {
		paths, err := fm.DownloadRecordAttachments(ctx, tableID, recordID, fieldName, filepath.Join(destDir, recordID))
		if err != nil {
			return nil, fmt.Errorf("bulk download failed for record %s: %w", recordID, err)
		}
		results[recordID] = paths
	}
	return results, nil
}

// GetAttachmentInfo returns the current attachment list of the field on
// the record. Always a live read; nothing is cached.
func (fm *FileManager) GetAttachmentInfo(ctx context.Context, tableID, recordID, fieldName string) ([]Attachment, error) {
	record, err := fm.client.ReadRecord(ctx, tableID, recordID)
	if err != nil {
		return nil, err
	}
	return attachmentsFromField(record, fieldName)
}

// CreateAttachmentSummary aggregates the field's current attachment list
// into counts, total size and the set of file extensions.
//
// Descriptors without a size contribute zero to TotalSize; titles without
// an extension contribute no file type. Recomputed on every call.
func (fm *FileManager) CreateAttachmentSummary(ctx context.Context, tableID, recordID, fieldName string) (*AttachmentSummary, error) {
	attachments, err := fm.GetAttachmentInfo(ctx, tableID, recordID, fieldName)
	if err != nil {
		return nil, err
	}

	summary := &AttachmentSummary{
		TotalCount: len(attachments),
		FileTypes:  make(map[string]struct{}),
	}
	for _, att := range attachments {
		summary.TotalSize += att.Size
		if ext := att.Extension(); ext != "" {
			summary.FileTypes[ext] = struct{}{}
		}
	}
	return summary, nil
}

// CleanupTempFiles removes every entry directly under dirPath, recursing
// into subdirectories, and returns the number of top-level entries removed.
//
// A missing directory is an idempotent no-op returning 0. An empty dirPath
// cleans the manager's own temp directory. The removal is irreversible;
// callers must ensure the directory is scoped to this library's temporary
// working area.
func (fm *FileManager) CleanupTempFiles(dirPath string) (int, error) {
	if dirPath == "" {
		dirPath = fm.tempDir
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, &FilesystemError{Path: dirPath, Err: err}
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(dirPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, &FilesystemError{Path: path, Err: err}
		}
		removed++
	}

	logger.Debug("Removed %d entries from %s", removed, dirPath)
	return removed, nil
}
