package nocodb

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// HashAlgorithm names a supported content digest algorithm.
type HashAlgorithm string

const (
	HashSHA256 HashAlgorithm = "sha256"
	HashSHA1   HashAlgorithm = "sha1"
	HashMD5    HashAlgorithm = "md5"
)

// newDigest returns a fresh hash.Hash for the algorithm, or an error if the
// algorithm is not supported.
func newDigest(algorithm HashAlgorithm) (hash.Hash, error) {
	switch HashAlgorithm(strings.ToLower(string(algorithm))) {
	case HashSHA256:
		return sha256.New(), nil
	case HashSHA1:
		return sha1.New(), nil
	case HashMD5:
		return md5.New(), nil
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported hash algorithm: %s", algorithm)}
	}
}

// ValidateFile checks that path refers to an existing readable file and
// returns its metadata: byte size, best-effort MIME type derived from the
// file extension, and the SHA-256 content hash.
//
// The check is purely a read; it has no side effects and nothing is cached.
// A missing path fails with a ValidationError before any result is built.
func ValidateFile(path string) (*FileValidationResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ValidationError{Message: fmt.Sprintf("file not found: %s", path)}
		}
		return nil, &FilesystemError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ValidationError{Message: fmt.Sprintf("path is not a file: %s", path)}
	}

	digest, err := CalculateFileHash(path, HashSHA256)
	if err != nil {
		return nil, err
	}

	return &FileValidationResult{
		Exists:   true,
		Size:     info.Size(),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Hash:     digest,
	}, nil
}

// CalculateFileHash computes the content digest of the file at path using
// the given algorithm and returns it as a lowercase hex string.
//
// The file is streamed through the digest rather than loaded wholesale, so
// memory use is bounded regardless of file size. Digest length depends on
// the algorithm: sha256 yields 64 hex characters, sha1 40, md5 32.
//
// Fails with a NotFoundError if the path does not exist and with a
// ValidationError if the algorithm is not supported.
func CalculateFileHash(path string, algorithm HashAlgorithm) (string, error) {
	digest, err := newDigest(algorithm)
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Kind: "file", Key: path}
		}
		return "", &FilesystemError{Path: path, Err: err}
	}
	defer file.Close()

	if _, err := io.Copy(digest, file); err != nil {
		return "", &FilesystemError{Path: path, Err: err}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
