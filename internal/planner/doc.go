// Package planner computes which tables of a WordPress database are redacted.
//
// The planner resolves the requested categories against the compat
// registry, skips providers whose subsystem is not active, and produces a
// RedactionPlan: the de-duplicated, prefixed list of physical tables whose
// rows are left out of the export.
//
// Key responsibilities:
//   - Gate optional providers through an injected Probe
//   - De-duplicate tables across providers and categories
//   - Apply the table prefix exactly once
//   - Refuse to return an empty plan (ErrNoTablesSelected)
package planner
