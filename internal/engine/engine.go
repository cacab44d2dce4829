// Package engine orchestrates a stripped database export.
//
// The engine acts as the layer between CLI commands and the adapters that
// touch the outside world. It asks the planner which tables to redact,
// reads the table inventory once, partitions it into kept and redacted
// tables, and drives the two exports that together form a safe dump:
//
//   - {basename}-1{ext}: full rows for every kept table
//   - {basename}-2{ext}: schema only for every redacted table
//
// Importing the first file and then the second rebuilds the database with
// the redacted tables present but empty.
package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/danieljhkim/stripdb/internal/clock"
	"github.com/danieljhkim/stripdb/internal/dumper"
	"github.com/danieljhkim/stripdb/internal/fsops"
	"github.com/danieljhkim/stripdb/internal/hash"
	"github.com/danieljhkim/stripdb/internal/planner"
)

// Inventory lists the physical tables of the database.
type Inventory interface {
	ListTables(ctx context.Context) ([]string, error)
}

// IDGenerator returns a short identifier used when no output name is given.
type IDGenerator func() string

// RandomID returns six random hex characters.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// Engine orchestrates stripped exports.
// It is the main API surface called by the CLI.
type Engine struct {
	planner   *planner.Planner
	probe     planner.Probe
	inventory Inventory
	exporter  dumper.Exporter
	fs        fsops.FS
	hasher    hash.Hasher
	clock     clock.Clock
	newID     IDGenerator
}

// New creates a new Engine with the given dependencies.
func New(
	pl *planner.Planner,
	probe planner.Probe,
	inventory Inventory,
	exporter dumper.Exporter,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	newID IDGenerator,
) *Engine {
	if hasher == nil {
		hasher = hash.NewSHA256Hasher()
	}
	if clk == nil {
		clk = &clock.RealClock{}
	}
	if newID == nil {
		newID = RandomID
	}
	return &Engine{
		planner:   pl,
		probe:     probe,
		inventory: inventory,
		exporter:  exporter,
		fs:        fs,
		hasher:    hasher,
		clock:     clk,
		newID:     newID,
	}
}
