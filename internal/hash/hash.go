// Package hash computes checksums of finished exports.
//
// The checksum covers the file as written, so for .sql.gz exports it is the
// checksum of the compressed bytes. Operators use it to verify a dump after
// copying it to another machine.
package hash

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Prefix marks the algorithm in checksum strings.
const Prefix = "sha256:"

// Hasher computes export checksums.
type Hasher interface {
	// HashFile returns the checksum of the file at path.
	HashFile(path string) (string, error)
}

// SHA256Hasher hashes files on disk.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile returns "sha256:<hex>" for the file at path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	sum, err := Sum(bufio.NewReaderSize(file, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return sum, nil
}

// Sum returns "sha256:<hex>" for everything read from r.
func Sum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// FakeHasher hashes in-memory file contents, such as fsops.FakeFS.Files.
type FakeHasher struct {
	files map[string][]byte
}

// NewFakeHasher creates a FakeHasher reading from files.
func NewFakeHasher(files map[string][]byte) *FakeHasher {
	return &FakeHasher{files: files}
}

// HashFile returns the checksum of files[path].
func (h *FakeHasher) HashFile(path string) (string, error) {
	data, ok := h.files[path]
	if !ok {
		return "", fmt.Errorf("failed to open %s: %w", path, os.ErrNotExist)
	}
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:]), nil
}
