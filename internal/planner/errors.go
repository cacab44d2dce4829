package planner

import "errors"

// ErrNoTablesSelected indicates the requested categories resolved to no tables.
var ErrNoTablesSelected = errors.New("no tables selected for stripping data")
