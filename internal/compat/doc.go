// Package compat declares which WordPress tables hold sensitive data.
//
// Each TableProvider covers one subsystem (WordPress core or an optional
// plugin) and lists the unprefixed table names it owns per redaction
// Category. The Registry groups providers so callers can ask which
// providers contribute tables to a category.
//
// Table names here never carry the installation's table prefix; the
// planner applies it once when the redaction plan is finalized.
package compat
