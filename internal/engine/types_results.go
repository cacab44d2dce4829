package engine

import (
	"time"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/planner"
)

// StripResult represents the result of a stripped export.
type StripResult struct {
	// Plan is the redaction plan
	Plan *planner.RedactionPlan `json:"plan"`

	// Keep is the list of tables exported with their rows
	Keep []string `json:"keep"`

	// Redact is the list of tables exported as structure only
	Redact []string `json:"redact"`

	// Missing lists planned tables that do not exist in the database
	Missing []string `json:"missing,omitempty"`

	// DataFile is the export holding full rows (import first)
	DataFile string `json:"data_file"`

	// StructureFile is the export holding empty redacted tables (import second)
	StructureFile string `json:"structure_file"`

	// DataChecksum and StructureChecksum are "sha256:<hex>" of the written
	// files. Empty on dry runs.
	DataChecksum      string `json:"data_checksum,omitempty"`
	StructureChecksum string `json:"structure_checksum,omitempty"`

	// DryRun is true when nothing was written
	DryRun bool `json:"dry_run"`

	// StartedAt and Elapsed time the whole run.
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// UsersStripped reports whether user accounts were removed, which means an
// administrator has to be recreated after import.
func (r *StripResult) UsersStripped() bool {
	return r.Plan != nil && r.Plan.HasCategory(compat.Users)
}
