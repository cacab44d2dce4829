package engine

import "errors"

var (
	// ErrExportFailed indicates the dump tool failed.
	ErrExportFailed = errors.New("export failed")

	// ErrOutputExists indicates an output file would be overwritten.
	ErrOutputExists = errors.New("output file already exists")

	// ErrEmptyKeepSet indicates every table in the database would be redacted.
	ErrEmptyKeepSet = errors.New("no tables left to export with data")
)
