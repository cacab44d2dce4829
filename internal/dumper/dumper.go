// Package dumper wraps the tools that produce SQL dumps.
//
// Two exporters are provided: MysqldumpExporter talks to the database
// directly through mysqldump, WPExporter goes through `wp db export` and
// lets WP-CLI resolve the connection. Both stream the dump to an
// io.Writer supplied by the caller.
package dumper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// StructureOnlyWhere is a row filter matching no rows. Exporting with it
// keeps CREATE TABLE statements and drops every INSERT.
const StructureOnlyWhere = "1=0"

// ErrNoTables is returned when an export is requested without tables.
// mysqldump and wp db export both fall back to dumping the whole database
// in that case, so the request is refused instead.
var ErrNoTables = errors.New("no tables to export")

// ErrReservedFlag is returned for forwarded options that would change which
// tables or rows are exported.
var ErrReservedFlag = errors.New("option cannot be forwarded to the export tool")

// reservedFlags are set by the exporters themselves.
var reservedFlags = []string{"where", "tables", "databases", "all-databases"}

// ReservedFlags returns the option names that cannot be forwarded.
func ReservedFlags() []string {
	return append([]string(nil), reservedFlags...)
}

// CheckFlag rejects options reserved by the exporters.
func CheckFlag(f Flag) error {
	// mysqldump treats "_" and "-" alike and accepts unambiguous prefixes.
	// --tab is an option of its own.
	name := strings.ToLower(strings.ReplaceAll(f.Name, "_", "-"))
	if name != "" && name != "tab" && slices.ContainsFunc(reservedFlags, func(r string) bool {
		return strings.HasPrefix(r, name)
	}) {
		return fmt.Errorf("%w: --%s is set by stripdb", ErrReservedFlag, f.Name)
	}
	return nil
}

// CheckFlags runs CheckFlag on every flag.
func CheckFlags(flags []Flag) error {
	for _, f := range flags {
		if err := CheckFlag(f); err != nil {
			return err
		}
	}
	return nil
}

// Flag is an option forwarded verbatim to the dump tool.
type Flag struct {
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"has_value,omitempty"`
}

// String renders the flag as a single command line argument.
func (f Flag) String() string {
	if !f.HasValue {
		return "--" + f.Name
	}
	return "--" + f.Name + "=" + f.Value
}

// ParseFlag parses "--name" or "--name=value".
func ParseFlag(arg string) (Flag, bool) {
	if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
		return Flag{}, false
	}
	name, value, hasValue := strings.Cut(arg[2:], "=")
	if name == "" {
		return Flag{}, false
	}
	return Flag{Name: name, Value: value, HasValue: hasValue}, true
}

// Request describes one export.
type Request struct {
	// Tables restricts the export to these physical tables.
	Tables []string

	// Where is an SQL boolean expression applied to every table's rows.
	// Empty means all rows.
	Where string

	// Extra flags are forwarded verbatim to the dump tool.
	Extra []Flag
}

// Exporter writes an SQL dump of the requested tables to w.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, req Request) error
}

func flagArgs(flags []Flag) []string {
	args := make([]string, 0, len(flags))
	for _, f := range flags {
		args = append(args, f.String())
	}
	return args
}
