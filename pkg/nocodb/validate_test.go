package nocodb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateFile(t *testing.T) {
	path := writeTestFile(t, "hello.txt", "hello world")

	result, err := ValidateFile(path)
	require.NoError(t, err)

	assert.True(t, result.Exists)
	assert.Equal(t, int64(11), result.Size)
	assert.Contains(t, result.MimeType, "text/plain")
	// SHA-256 of "hello world"
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", result.Hash)
}

func TestValidateFile_Missing(t *testing.T) {
	_, err := ValidateFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)

	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "file not found")
}

func TestValidateFile_Directory(t *testing.T) {
	_, err := ValidateFile(t.TempDir())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCalculateFileHash(t *testing.T) {
	path := writeTestFile(t, "data.bin", "hello world")

	tests := []struct {
		algorithm HashAlgorithm
		want      string
	}{
		{HashSHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{HashSHA1, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{HashMD5, "5eb63bbbe01eeed093cb22bb8f5acdc3"},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			got, err := CalculateFileHash(path, tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateFileHash_DigestLengths(t *testing.T) {
	path := writeTestFile(t, "data.bin", "content")

	lengths := map[HashAlgorithm]int{
		HashSHA256: 64,
		HashSHA1:   40,
		HashMD5:    32,
	}
	for algorithm, want := range lengths {
		got, err := CalculateFileHash(path, algorithm)
		require.NoError(t, err)
		assert.Len(t, got, want, "algorithm %s", algorithm)
	}
}

func TestCalculateFileHash_UppercaseAlgorithmAccepted(t *testing.T) {
	path := writeTestFile(t, "data.bin", "content")

	got, err := CalculateFileHash(path, HashAlgorithm("SHA256"))
	require.NoError(t, err)
	assert.Len(t, got, 64)
}

func TestCalculateFileHash_UnsupportedAlgorithm(t *testing.T) {
	path := writeTestFile(t, "data.bin", "content")

	_, err := CalculateFileHash(path, HashAlgorithm("crc32"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCalculateFileHash_MissingFile(t *testing.T) {
	_, err := CalculateFileHash(filepath.Join(t.TempDir(), "nope.bin"), HashSHA256)
	require.Error(t, err)

	assert.True(t, IsNotFound(err))
}

func TestAttachmentExtension(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"report.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"photo.jpg", "jpg"},
		{"README", ""},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Attachment{Title: tt.title}.Extension(), "title %q", tt.title)
	}
}
