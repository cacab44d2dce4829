package engine

import (
	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/dumper"
)

// StripRequest represents a request to create a stripped export.
type StripRequest struct {
	// Basename is the output name; a trailing ".sql" or ".sql.gz" is
	// stripped and reused as the extension. Empty picks a random name.
	Basename string

	// Categories are the data categories to strip.
	Categories []compat.Category

	// Prefix is the installation's table prefix.
	Prefix string

	// Extra flags are forwarded verbatim to both exports.
	Extra []dumper.Flag

	// DryRun performs planning only without exporting
	DryRun bool

	// Force allows overwriting existing output files
	Force bool
}
