// Package fsops provides filesystem operations for dump output files.
//
// Dumps are streamed into a temporary ".partial" file next to the target
// and only renamed into place once the export succeeded, so a failed or
// interrupted export never leaves a file that looks complete.
//
// Key features:
//   - Atomic commit using temp file + rename
//   - Transparent gzip compression for ".gz" targets
//   - Testable via the FS interface
package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// PartialSuffix is appended to output files while they are being written.
const PartialSuffix = ".partial"

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// Remove removes a file.
	Remove(path string) error

	// Create opens an output file that becomes visible at path on Commit.
	Create(path string) (OutputFile, error)
}

// OutputFile is a file being written. Exactly one of Commit or Abort must
// be called.
type OutputFile interface {
	io.Writer

	// Commit flushes, syncs and renames the file into place.
	Commit() error

	// Abort discards everything written so far.
	Abort() error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove removes a file.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// Create opens path+PartialSuffix for writing. Targets ending in ".gz" are
// gzip-compressed.
func (fs *RealFS) Create(path string) (OutputFile, error) {
	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpPath := path + PartialSuffix
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	out := &realOutputFile{file: f, path: path, tmpPath: tmpPath, w: f}
	if strings.HasSuffix(path, ".gz") {
		out.gz = gzip.NewWriter(f)
		out.w = out.gz
	}
	return out, nil
}

type realOutputFile struct {
	file    *os.File
	gz      *gzip.Writer
	w       io.Writer
	path    string
	tmpPath string
	done    bool
}

func (o *realOutputFile) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

func (o *realOutputFile) Commit() error {
	if o.done {
		return fmt.Errorf("output file %s already closed", o.path)
	}
	o.done = true

	if o.gz != nil {
		if err := o.gz.Close(); err != nil {
			_ = o.discard()
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}

	// Sync to disk
	if err := o.file.Sync(); err != nil {
		_ = o.discard()
		return fmt.Errorf("failed to sync %s: %w", o.tmpPath, err)
	}
	if err := o.file.Close(); err != nil {
		_ = os.Remove(o.tmpPath)
		return fmt.Errorf("failed to close %s: %w", o.tmpPath, err)
	}

	if err := os.Chmod(o.tmpPath, 0644); err != nil {
		_ = os.Remove(o.tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomically rename temp file to target
	if err := os.Rename(o.tmpPath, o.path); err != nil {
		_ = os.Remove(o.tmpPath)
		return fmt.Errorf("failed to rename %s: %w", o.tmpPath, err)
	}
	return nil
}

func (o *realOutputFile) Abort() error {
	if o.done {
		return nil
	}
	o.done = true
	return o.discard()
}

func (o *realOutputFile) discard() error {
	_ = o.file.Close()
	if err := os.Remove(o.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", o.tmpPath, err)
	}
	return nil
}
