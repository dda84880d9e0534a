package nocodb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordClient implements RecordClient in memory for FileManager tests.
type fakeRecordClient struct {
	uploads      []string
	updates      []map[string]any
	records      map[string]Record
	failUpload   map[string]error
	downloadData map[string][]byte

	uploadCalls   int
	readCalls     int
	updateCalls   int
	downloadCalls int
}

func newFakeRecordClient() *fakeRecordClient {
	return &fakeRecordClient{
		records:      make(map[string]Record),
		failUpload:   make(map[string]error),
		downloadData: make(map[string][]byte),
	}
}

func (f *fakeRecordClient) UploadRaw(_ context.Context, _ string, path string) (*UploadResult, error) {
	f.uploadCalls++
	if err := f.failUpload[path]; err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, path)
	return &UploadResult{
		URL:   "https://cdn.example.com/" + filepath.Base(path),
		Title: filepath.Base(path),
	}, nil
}

func (f *fakeRecordClient) ReadRecord(_ context.Context, _ string, recordID string) (Record, error) {
	f.readCalls++
	record, ok := f.records[recordID]
	if !ok {
		return nil, &NotFoundError{Kind: "record", Key: recordID}
	}
	return record, nil
}

func (f *fakeRecordClient) UpdateRecord(_ context.Context, _ string, recordID string, fields map[string]any) (string, error) {
	f.updateCalls++
	f.updates = append(f.updates, fields)
	return recordID, nil
}

func (f *fakeRecordClient) DownloadAttachment(_ context.Context, _ string, recordID, fieldName string, index int) (io.ReadCloser, error) {
	f.downloadCalls++
	key := fmt.Sprintf("%s/%s/%d", recordID, fieldName, index)
	data, ok := f.downloadData[key]
	if !ok {
		return nil, &NotFoundError{Kind: "attachment", Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestUploadFile_ValidatesFirst(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	_, err := fm.UploadFile(context.Background(), "tbl", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, client.uploadCalls, "no upload is attempted for an invalid file")
}

func TestUploadFilesBatch_Empty(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	results, err := fm.UploadFilesBatch(context.Background(), "tbl", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, client.uploadCalls)
}

func TestUploadFilesBatch_OrderPreserved(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	a := writeTestFile(t, "a.txt", "aaa")
	b := writeTestFile(t, "b.txt", "bbb")
	c := writeTestFile(t, "c.txt", "ccc")

	results, err := fm.UploadFilesBatch(context.Background(), "tbl", []string{a, b, c})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a.txt", results[0].Title)
	assert.Equal(t, "b.txt", results[1].Title)
	assert.Equal(t, "c.txt", results[2].Title)
}

func TestUploadFilesBatch_FailFast(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	a := writeTestFile(t, "a.txt", "aaa")
	b := writeTestFile(t, "b.txt", "bbb")
	c := writeTestFile(t, "c.txt", "ccc")
	client.failUpload[b] = &TransportError{Op: "upload", Err: fmt.Errorf("connection reset")}

	_, err := fm.UploadFilesBatch(context.Background(), "tbl", []string{a, b, c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch upload failed at")

	// The file before the failure was uploaded; the one after was not.
	assert.Equal(t, []string{a}, client.uploads)
}

func TestAttachFilesToRecord(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	a := writeTestFile(t, "a.txt", "aaa")
	b := writeTestFile(t, "b.txt", "bbb")

	id, err := fm.AttachFilesToRecord(context.Background(), "tbl", "42", "Documents", []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	require.Equal(t, 1, client.updateCalls, "exactly one record update")
	attachments, ok := client.updates[0]["Documents"].([]Attachment)
	require.True(t, ok)
	require.Len(t, attachments, 2)
	assert.Equal(t, "a.txt", attachments[0].Title)
	assert.Equal(t, "b.txt", attachments[1].Title)
}

func TestAttachFilesToRecord_UploadFailureSkipsUpdate(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	a := writeTestFile(t, "a.txt", "aaa")
	client.failUpload[a] = &TransportError{Op: "upload", Err: fmt.Errorf("boom")}

	_, err := fm.AttachFilesToRecord(context.Background(), "tbl", "42", "Documents", []string{a})
	require.Error(t, err)
	assert.Zero(t, client.updateCalls, "record must stay unmodified on upload failure")
}

func TestDownloadFile(t *testing.T) {
	client := newFakeRecordClient()
	client.downloadData["42/Documents/0"] = []byte("file content")
	fm := NewFileManager(client)

	dest := filepath.Join(t.TempDir(), "sub", "dir", "out.txt")
	got, err := fm.DownloadFile(context.Background(), "tbl", "42", "Documents", 0, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("file content"), data)
}

func TestDownloadFile_MissingAttachment(t *testing.T) {
	client := newFakeRecordClient()
	fm := NewFileManager(client)

	_, err := fm.DownloadFile(context.Background(), "tbl", "42", "Documents", 3, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDownloadRecordAttachments(t *testing.T) {
	client := newFakeRecordClient()
	client.records["42"] = Record{
		"Documents": []any{
			map[string]any{"title": "one.txt", "size": float64(3)},
			map[string]any{"title": "two.txt", "size": float64(3)},
		},
	}
	client.downloadData["42/Documents/0"] = []byte("one")
	client.downloadData["42/Documents/1"] = []byte("two")
	fm := NewFileManager(client)

	destDir := t.TempDir()
	paths, err := fm.DownloadRecordAttachments(context.Background(), "tbl", "42", "Documents", destDir)
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(destDir, "one.txt"),
		filepath.Join(destDir, "two.txt"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestBulkDownloadAttachments(t *testing.T) {
	client := newFakeRecordClient()
	for _, id := range []string{"1", "2"} {
		client.records[id] = Record{
			"Documents": []any{map[string]any{"title": "same.txt"}},
		}
		client.downloadData[id+"/Documents/0"] = []byte("data-" + id)
	}
	fm := NewFileManager(client)

	destDir := t.TempDir()
	results, err := fm.BulkDownloadAttachments(context.Background(), "tbl", []string{"1", "2"}, "Documents", destDir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Records with equal titles land in per-record subdirectories.
	assert.Equal(t, []string{filepath.Join(destDir, "1", "same.txt")}, results["1"])
	assert.Equal(t, []string{filepath.Join(destDir, "2", "same.txt")}, results["2"])
}

func TestBulkDownloadAttachments_FailFast(t *testing.T) {
	client := newFakeRecordClient()
	client.records["1"] = Record{
		"Documents": []any{map[string]any{"title": "a.txt"}},
	}
	client.downloadData["1/Documents/0"] = []byte("a")
	// Record "2" is missing entirely.
	fm := NewFileManager(client)

	_, err := fm.BulkDownloadAttachments(context.Background(), "tbl", []string{"1", "2"}, "Documents", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk download failed for record 2")
}

func TestGetAttachmentInfo_EmptyStringField(t *testing.T) {
	client := newFakeRecordClient()
	// NocoDB stores a cleared attachment field as the JSON string "[]".
	client.records["42"] = Record{"Documents": "[]"}
	fm := NewFileManager(client)

	attachments, err := fm.GetAttachmentInfo(context.Background(), "tbl", "42", "Documents")
	require.NoError(t, err)
	assert.Empty(t, attachments)
}

func TestGetAttachmentInfo_NotAttachmentField(t *testing.T) {
	client := newFakeRecordClient()
	client.records["42"] = Record{"Name": "plain string"}
	fm := NewFileManager(client)

	_, err := fm.GetAttachmentInfo(context.Background(), "tbl", "42", "Name")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateAttachmentSummary(t *testing.T) {
	client := newFakeRecordClient()
	client.records["42"] = Record{
		"Documents": []any{
			map[string]any{"title": "report.txt", "size": float64(100)},
			map[string]any{"title": "photo.JPG", "size": float64(200)},
			map[string]any{"title": "noext"}, // no size, no extension
		},
	}
	fm := NewFileManager(client)

	summary, err := fm.CreateAttachmentSummary(context.Background(), "tbl", "42", "Documents")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, int64(300), summary.TotalSize, "missing size contributes zero")
	assert.Len(t, summary.FileTypes, 2)
	assert.True(t, summary.HasType("txt"))
	assert.True(t, summary.HasType(".JPG"))
	assert.False(t, summary.HasType("pdf"))
}

func TestCleanupTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.tmp"), []byte("y"), 0o644))

	fm := NewFileManager(newFakeRecordClient())
	removed, err := fm.CleanupTempFiles(dir)
	require.NoError(t, err)

	// Count is top-level entries, not files inside subdirectories.
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupTempFiles_MissingDir(t *testing.T) {
	fm := NewFileManager(newFakeRecordClient())

	removed, err := fm.CleanupTempFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanupTempFiles_DefaultDir(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "scratch")
	fm := NewFileManager(newFakeRecordClient(), WithTempDir(tempDir))

	path, err := fm.TempFilePath("download.bin")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	removed, err := fm.CleanupTempFiles("")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestTempFilePath_Unique(t *testing.T) {
	fm := NewFileManager(newFakeRecordClient(), WithTempDir(filepath.Join(t.TempDir(), "scratch")))

	first, err := fm.TempFilePath("file.txt")
	require.NoError(t, err)
	second, err := fm.TempFilePath("file.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
