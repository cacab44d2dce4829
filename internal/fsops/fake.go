package fsops

import (
	"bytes"
	"fmt"
)

// FakeFS is an in-memory FS for tests.
type FakeFS struct {
	// Files holds committed files by path.
	Files map[string][]byte

	// Open lists paths with an OutputFile that is neither committed nor aborted.
	Open map[string]bool

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewFakeFS creates an empty FakeFS.
func NewFakeFS() *FakeFS {
	return &FakeFS{
		Files: make(map[string][]byte),
		Open:  make(map[string]bool),
	}
}

// Exists reports whether path was committed.
func (fs *FakeFS) Exists(path string) (bool, error) {
	_, ok := fs.Files[path]
	return ok, nil
}

// Remove deletes a committed file.
func (fs *FakeFS) Remove(path string) error {
	if _, ok := fs.Files[path]; !ok {
		return fmt.Errorf("remove %s: file does not exist", path)
	}
	delete(fs.Files, path)
	return nil
}

// Create returns an in-memory OutputFile.
func (fs *FakeFS) Create(path string) (OutputFile, error) {
	if fs.CreateErr != nil {
		return nil, fs.CreateErr
	}
	if fs.Open[path] {
		return nil, fmt.Errorf("%s is already open", path)
	}
	fs.Open[path] = true
	return &fakeOutputFile{fs: fs, path: path}, nil
}

type fakeOutputFile struct {
	bytes.Buffer
	fs   *FakeFS
	path string
}

func (o *fakeOutputFile) Commit() error {
	delete(o.fs.Open, o.path)
	o.fs.Files[o.path] = o.Bytes()
	return nil
}

func (o *fakeOutputFile) Abort() error {
	delete(o.fs.Open, o.path)
	return nil
}
