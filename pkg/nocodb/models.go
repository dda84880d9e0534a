package nocodb

import (
	"path/filepath"
	"strings"
)

// Record is a single table row as returned by the NocoDB data API.
// Field values are kept in their decoded JSON form.
type Record map[string]any

// PageInfo describes the pagination state of a list response.
type PageInfo struct {
	TotalRows   int  `json:"totalRows"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	IsFirstPage bool `json:"isFirstPage"`
	IsLastPage  bool `json:"isLastPage"`
}

// FileValidationResult holds the metadata computed for a local file before
// upload. A result is only produced for files that exist; validation of a
// missing file fails before constructing one.
type FileValidationResult struct {
	// Exists is always true on a returned result
	Exists bool

	// Size is the file size in bytes from the filesystem stat
	Size int64

	// MimeType is the best-effort MIME type derived from the file name.
	// Empty if it could not be determined.
	MimeType string

	// Hash is the lowercase hex SHA-256 digest of the file content
	Hash string
}

// UploadResult is the response for one uploaded file, echoed from the
// NocoDB storage endpoint without interpretation.
type UploadResult struct {
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	MimeType   string `json:"mimetype,omitempty"`
	Size       int64  `json:"size,omitempty"`
	SignedPath string `json:"signedPath,omitempty"`
	Path       string `json:"path,omitempty"`
}

// Attachment is the descriptor shape stored in a record's attachment-type
// field. A field value is an ordered list of these; list order is display
// order and the index used to address individual attachments for download.
type Attachment struct {
	URL        string `json:"url,omitempty"`
	Title      string `json:"title"`
	MimeType   string `json:"mimetype,omitempty"`
	Size       int64  `json:"size,omitempty"`
	SignedPath string `json:"signedPath,omitempty"`
}

// Extension returns the lowercase file extension of the attachment title
// without the leading dot, or "" if the title has no extension.
func (a Attachment) Extension() string {
	ext := filepath.Ext(a.Title)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AttachmentSummary aggregates the attachment list of one field on one
// record. It is derived on demand and never cached.
type AttachmentSummary struct {
	// TotalCount is the number of attachments in the field
	TotalCount int

	// TotalSize is the sum of the attachment sizes in bytes.
	// Descriptors without a size contribute zero.
	TotalSize int64

	// FileTypes is the set of lowercase extensions present, without
	// leading dots. Files without an extension contribute no entry.
	FileTypes map[string]struct{}
}

// HasType reports whether the summary contains the given extension.
// The extension is matched case-insensitively and without a leading dot.
func (s AttachmentSummary) HasType(ext string) bool {
	_, ok := s.FileTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}
